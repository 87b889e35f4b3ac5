package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SalesApp/internal/core/ports"
	"github.com/GoArmGo/SalesApp/internal/messaging/payloads"
	"github.com/GoArmGo/SalesApp/internal/usecase"
)

// runWorker потребляет события продаж и архивирует квитанции до отмены ctx
func runWorker(
	ctx context.Context,
	consumer ports.SaleEventConsumer,
	receipts usecase.ReceiptUseCase,
	logger *slog.Logger,
) error {
	if consumer == nil || receipts == nil {
		return errors.New("воркеру нужны RabbitMQ и хранилище квитанций")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done, err := consumer.StartConsumingSaleEvents(workerCtx, func(ctx context.Context, event payloads.SaleEvent) error {
		_, err := receipts.ArchiveSaleEvent(ctx, event)
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	logger.Info("worker started, waiting for sale events")
	select {
	case <-ctx.Done():
		cancel()
		// ждем завершения текущего сообщения, иначе Shutdown закроет канал до Ack
		<-done
	case <-done:
		if ctx.Err() == nil {
			return errors.New("потребитель RabbitMQ остановился: канал доставки закрыт")
		}
	}
	logger.Info("worker stopped")
	return nil
}
