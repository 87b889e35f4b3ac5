package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SalesApp/internal/core/ports"
	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/GoArmGo/SalesApp/internal/messaging/payloads"
	"github.com/go-playground/validator/v10"
)

const publishTimeout = 5 * time.Second

// SaleUseCase определяет бизнес-логику работы с продажами
type SaleUseCase interface {
	// CreateSale требует существующего активного клиента, итог считается на сервере
	CreateSale(ctx context.Context, input domain.SaleInput) (*domain.Sale, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	GetSaleByID(ctx context.Context, id uint) (*domain.Sale, error)
	// UpdateSaleByID пересчитывает итог, если меняется количество или цена.
	// Клиент продажи повторно не проверяется.
	UpdateSaleByID(ctx context.Context, id uint, patch domain.SalePatch) (*domain.Sale, error)
	// DeleteSaleByID возвращает ErrNotFound и для уже удаленной продажи
	DeleteSaleByID(ctx context.Context, id uint) (*domain.Sale, error)
}

type saleUseCase struct {
	sales     ports.SaleStorage
	clients   ports.ClientStorage
	publisher ports.SaleEventPublisher
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewSaleUseCase создает новый экземпляр SaleUseCase.
// publisher может быть nil, тогда события не отправляются.
func NewSaleUseCase(
	sales ports.SaleStorage,
	clients ports.ClientStorage,
	publisher ports.SaleEventPublisher,
	logger *slog.Logger,
) SaleUseCase {
	return &saleUseCase{
		sales:     sales,
		clients:   clients,
		publisher: publisher,
		validate:  newValidator(),
		logger:    logger,
	}
}

func (uc *saleUseCase) CreateSale(ctx context.Context, input domain.SaleInput) (*domain.Sale, error) {
	if err := validateStruct(uc.validate, input); err != nil {
		return nil, err
	}

	clientID := input.ClientID.ID()
	if clientID == 0 {
		return nil, ErrClientUnavailable
	}
	client, err := uc.clients.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении клиента %d для продажи: %w", clientID, err)
	}
	if client == nil || !client.ActiveClient {
		uc.logger.Info("sale rejected, client unavailable", "client_id", clientID)
		return nil, ErrClientUnavailable
	}

	sale := &domain.Sale{
		NameProduct:   input.NameProduct,
		QuantityItems: input.QuantityItems.Int(),
		ValueItem:     input.ValueItem.Float(),
		ActiveSales:   true,
		ClientID:      clientID,
	}
	if input.ActiveSales != nil {
		sale.ActiveSales = *input.ActiveSales
	}
	sale.Recalculate()
	if !sale.TotalFinite() {
		return nil, errTotalOutOfRange
	}

	if err := uc.sales.CreateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании продажи: %w", err)
	}

	uc.publish(ctx, payloads.SaleCreated, *sale)
	return sale, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	sales, err := uc.sales.ListSales(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении списка продаж: %w", err)
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return sales, nil
}

func (uc *saleUseCase) GetSaleByID(ctx context.Context, id uint) (*domain.Sale, error) {
	sale, err := uc.sales.GetSaleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении продажи %d: %w", id, err)
	}
	if sale == nil {
		return nil, ErrNotFound
	}
	return sale, nil
}

func (uc *saleUseCase) UpdateSaleByID(ctx context.Context, id uint, patch domain.SalePatch) (*domain.Sale, error) {
	sale, err := uc.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(uc.validate, patch); err != nil {
		return nil, err
	}

	if patch.NameProduct != nil {
		sale.NameProduct = *patch.NameProduct
	}
	if patch.QuantityItems != nil {
		sale.QuantityItems = patch.QuantityItems.Int()
	}
	if patch.ValueItem != nil {
		sale.ValueItem = patch.ValueItem.Float()
	}
	if patch.ClientID != nil {
		sale.ClientID = patch.ClientID.ID()
	}
	if patch.ActiveSales != nil {
		sale.ActiveSales = *patch.ActiveSales
	}
	if patch.TouchesTotal() {
		sale.Recalculate()
		if !sale.TotalFinite() {
			return nil, errTotalOutOfRange
		}
	}

	if err := uc.sales.SaveSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при обновлении продажи %d: %w", id, err)
	}

	// перечитываем запись, чтобы вернуть состояние из хранилища
	updated, err := uc.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, payloads.SaleUpdated, *updated)
	return updated, nil
}

func (uc *saleUseCase) DeleteSaleByID(ctx context.Context, id uint) (*domain.Sale, error) {
	sale, err := uc.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sale.ActiveSales {
		return nil, ErrNotFound
	}

	sale.ActiveSales = false
	if err := uc.sales.SaveSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при удалении продажи %d: %w", id, err)
	}

	uc.logger.Info("sale deactivated", "id", id)
	uc.publish(ctx, payloads.SaleDeleted, *sale)
	return sale, nil
}

// publish отправляет событие продажи; ошибка только логируется
func (uc *saleUseCase) publish(ctx context.Context, eventType string, sale domain.Sale) {
	if uc.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := payloads.NewSaleEvent(eventType, sale)
	if err := uc.publisher.PublishSaleEvent(pubCtx, event); err != nil {
		uc.logger.Warn("failed to publish sale event",
			"event_id", event.ID,
			"type", eventType,
			"sale_id", sale.ID,
			"error", err,
		)
		return
	}
	uc.logger.Debug("sale event published", "event_id", event.ID, "type", eventType, "sale_id", sale.ID)
}
