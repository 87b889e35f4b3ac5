package ports

import (
	"context"

	"github.com/GoArmGo/SalesApp/internal/messaging/payloads"
)

// SaleEventPublisher публикует события жизненного цикла продажи
// используется сервисом продаж
type SaleEventPublisher interface {
	PublishSaleEvent(ctx context.Context, event payloads.SaleEvent) error
}

// SaleEventConsumer получает события продаж из очереди
// используется воркером архивации квитанций.
// Возвращаемый канал закрывается, когда потребитель остановлен и текущее сообщение обработано.
type SaleEventConsumer interface {
	StartConsumingSaleEvents(ctx context.Context, handler func(context.Context, payloads.SaleEvent) error) (<-chan struct{}, error)
}
