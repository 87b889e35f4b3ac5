package domain

import "time"

// Client представляет клиента, которому оформляются продажи.
// Соответствует таблице clients.
type Client struct {
	ID           uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name         string    `json:"name" db:"name" gorm:"not null"`
	Email        string    `json:"email" db:"email" gorm:"uniqueIndex;not null"`
	ActiveClient bool      `json:"activeClient" db:"active_client" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Sales нужен только для объявления внешнего ключа sales.client_id.
	Sales []Sale `json:"-" db:"-" gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Client) TableName() string {
	return "clients"
}

type ClientInput struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	ActiveClient *bool  `json:"activeClient"`
}

type ClientPatch struct {
	Name         *string `json:"name" validate:"omitnil,min=1"`
	Email        *string `json:"email" validate:"omitnil,email"`
	ActiveClient *bool   `json:"activeClient"`
}

type ClientFilter struct {
	Name   string
	Email  string
	Active *bool
}
