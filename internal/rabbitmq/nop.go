package rabbitmq

import (
	"context"

	"github.com/GoArmGo/SalesApp/internal/messaging/payloads"
)

// NopPublisher используется, когда RABBITMQ_URL не задан
type NopPublisher struct{}

func (NopPublisher) PublishSaleEvent(context.Context, payloads.SaleEvent) error {
	return nil
}
