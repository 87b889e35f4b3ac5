package payloads

import (
	"time"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/google/uuid"
)

// Типы событий продажи.
const (
	SaleCreated = "sale.created"
	SaleUpdated = "sale.updated"
	SaleDeleted = "sale.deleted"
)

// SaleEvent сообщение об изменении продажи, передается через RabbitMQ.
type SaleEvent struct {
	ID         uuid.UUID   `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Sale       domain.Sale `json:"sale"`
}

// NewSaleEvent создает событие с новым идентификатором и текущим временем
func NewSaleEvent(eventType string, sale domain.Sale) SaleEvent {
	return SaleEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Sale:       sale,
	}
}
