package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SalesApp/internal/core/ports"
	"github.com/GoArmGo/SalesApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

// ReceiptUseCase архивирует события продаж в файловое хранилище
type ReceiptUseCase interface {
	// ArchiveSaleEvent сохраняет квитанцию и возвращает ее URL
	ArchiveSaleEvent(ctx context.Context, event payloads.SaleEvent) (string, error)
}

// Receipt содержимое JSON-файла квитанции
type Receipt struct {
	EventID       uuid.UUID `json:"eventId"`
	EventType     string    `json:"eventType"`
	OccurredAt    time.Time `json:"occurredAt"`
	SaleID        uint      `json:"saleId"`
	ClientID      uint      `json:"clientId"`
	NameProduct   string    `json:"nameProduct"`
	QuantityItems int       `json:"quantityItems"`
	ValueItem     float64   `json:"valueItem"`
	TotalValue    float64   `json:"totalValue"`
	ActiveSales   bool      `json:"activeSales"`
}

type receiptUseCase struct {
	files  ports.FileStorage
	logger *slog.Logger
}

func NewReceiptUseCase(files ports.FileStorage, logger *slog.Logger) ReceiptUseCase {
	return &receiptUseCase{files: files, logger: logger}
}

// ReceiptKey ключ объекта квитанции в бакете
func ReceiptKey(event payloads.SaleEvent) string {
	return fmt.Sprintf("sales/%d/%s-%s.json", event.Sale.ID, event.Type, event.ID)
}

func (uc *receiptUseCase) ArchiveSaleEvent(ctx context.Context, event payloads.SaleEvent) (string, error) {
	start := time.Now()

	receipt := Receipt{
		EventID:       event.ID,
		EventType:     event.Type,
		OccurredAt:    event.OccurredAt,
		SaleID:        event.Sale.ID,
		ClientID:      event.Sale.ClientID,
		NameProduct:   event.Sale.NameProduct,
		QuantityItems: event.Sale.QuantityItems,
		ValueItem:     event.Sale.ValueItem,
		TotalValue:    event.Sale.TotalValue,
		ActiveSales:   event.Sale.ActiveSales,
	}

	body, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка сериализации квитанции: %w", err)
	}

	key := ReceiptKey(event)
	url, err := uc.files.UploadFile(ctx, key, body, "application/json")
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка загрузки квитанции %s: %w", key, err)
	}

	uc.logger.Info("sale receipt archived",
		"event_id", event.ID,
		"type", event.Type,
		"sale_id", event.Sale.ID,
		"key", key,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return url, nil
}
