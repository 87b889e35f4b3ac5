package domain

import (
	"math"
	"time"
)

// Sale представляет продажу, соответствует таблице sales.
// TotalValue всегда вычисляется из QuantityItems и ValueItem.
type Sale struct {
	ID            uint      `json:"id" db:"id" gorm:"primaryKey"`
	NameProduct   string    `json:"nameProduct" db:"name_product" gorm:"not null"`
	QuantityItems int       `json:"quantityItems" db:"quantity_items" gorm:"not null"`
	ValueItem     float64   `json:"valueItem" db:"value_item" gorm:"not null"`
	TotalValue    float64   `json:"totalValue" db:"total_value" gorm:"not null"`
	ActiveSales   bool      `json:"activeSales" db:"active_sales" gorm:"not null"`
	ClientID      uint      `json:"clientId" db:"client_id" gorm:"not null;index"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (Sale) TableName() string {
	return "sales"
}

// Recalculate пересчитывает итоговую сумму продажи.
func (s *Sale) Recalculate() {
	s.TotalValue = float64(s.QuantityItems) * s.ValueItem
}

// TotalFinite false, если сумма вышла за пределы float64 и не может быть сохранена.
func (s *Sale) TotalFinite() bool {
	return !math.IsInf(s.TotalValue, 0) && !math.IsNaN(s.TotalValue)
}

// SaleInput тело запроса POST /api/sales. TotalValue из запроса не принимается.
type SaleInput struct {
	NameProduct   string   `json:"nameProduct" validate:"required"`
	QuantityItems *Numeric `json:"quantityItems" validate:"required"`
	ValueItem     *Numeric `json:"valueItem" validate:"required"`
	ClientID      *Numeric `json:"clientId" validate:"required"`
	ActiveSales   *bool    `json:"activeSales"`
}

type SalePatch struct {
	NameProduct   *string  `json:"nameProduct" validate:"omitnil,min=1"`
	QuantityItems *Numeric `json:"quantityItems"`
	ValueItem     *Numeric `json:"valueItem"`
	ClientID      *Numeric `json:"clientId"`
	ActiveSales   *bool    `json:"activeSales"`
}

// TouchesTotal сообщает, затрагивает ли патч множители итоговой суммы.
func (p SalePatch) TouchesTotal() bool {
	return p.QuantityItems != nil || p.ValueItem != nil
}

type SaleFilter struct {
	ClientID *uint
	Active   *bool
}
