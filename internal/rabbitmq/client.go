package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SalesApp/internal/config"
	"github.com/GoArmGo/SalesApp/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	publishTimeout = 5 * time.Second
	handleTimeout  = 30 * time.Second
)

// Client представляет собой клиент RabbitMQ для событий продаж
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь событий продаж
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// durable: очередь переживает перезапуск брокера
	q, err := ch.QueueDeclare(cfg.RabbitMQ.SaleEventsQueue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("rabbitmq connected", "queue", q.Name, "messages", q.Messages)
	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия соединения RabbitMQ: %w", err)
		}
	}
	c.logger.Info("rabbitmq connection closed")
	return nil
}

// PublishSaleEvent реализует ports.SaleEventPublisher
func (c *Client) PublishSaleEvent(ctx context.Context, event payloads.SaleEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sale event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(publishCtx, "", c.queue.Name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish sale event: %w", err)
	}

	c.logger.Debug("sale event published", "queue", c.queue.Name, "event_id", event.ID, "type", event.Type)
	return nil
}

// StartConsumingSaleEvents реализует ports.SaleEventConsumer.
// Подтверждение ручное, обработка идет в отдельной горутине до отмены ctx.
func (c *Client) StartConsumingSaleEvents(ctx context.Context, handler func(context.Context, payloads.SaleEvent) error) (<-chan struct{}, error) {
	msgs, err := c.channel.Consume(c.queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	done := make(chan struct{})
	go consume(ctx, msgs, handler, c.logger, done)
	return done, nil
}

// consume читает доставки до отмены ctx или закрытия канала и закрывает done.
// Начатое сообщение дорабатывается до конца, чтобы Ack ушел до закрытия канала AMQP.
func consume(
	ctx context.Context,
	msgs <-chan amqp.Delivery,
	handler func(context.Context, payloads.SaleEvent) error,
	logger *slog.Logger,
	done chan<- struct{},
) {
	defer close(done)
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("rabbitmq delivery channel closed, stopping consumer")
				return
			}
			handleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
			handleDelivery(handleCtx, msg, handler, logger)
			cancel()
		case <-ctx.Done():
			logger.Info("context cancelled, stopping rabbitmq consumer")
			return
		}
	}
}

// handleDelivery: битый JSON отбрасывается без возврата в очередь,
// ошибка обработчика возвращает сообщение в очередь.
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.SaleEvent) error, logger *slog.Logger) {
	var event payloads.SaleEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Error("failed to unmarshal sale event", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		logger.Error("failed to process sale event", "event_id", event.ID, "type", event.Type, "error", err)
		if err := msg.Nack(false, true); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("failed to ack message", "event_id", event.ID, "error", err)
	}
}
