package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SalesApp/internal/core/ports"
	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ClientUseCase определяет бизнес-логику работы с клиентами
type ClientUseCase interface {
	CreateClient(ctx context.Context, input domain.ClientInput) (*domain.Client, error)
	ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error)
	GetClientByID(ctx context.Context, id uint) (*domain.Client, error)
	UpdateClientByID(ctx context.Context, id uint, patch domain.ClientPatch) (*domain.Client, error)
	DeleteClientByID(ctx context.Context, id uint) (*domain.Client, error)
}

type clientUseCase struct {
	storage  ports.ClientStorage
	validate *validator.Validate
	logger   *slog.Logger
}

func NewClientUseCase(storage ports.ClientStorage, logger *slog.Logger) ClientUseCase {
	return &clientUseCase{
		storage:  storage,
		validate: newValidator(),
		logger:   logger,
	}
}

func (uc *clientUseCase) CreateClient(ctx context.Context, input domain.ClientInput) (*domain.Client, error) {
	if err := validateStruct(uc.validate, input); err != nil {
		return nil, err
	}

	existing, err := uc.storage.GetClientByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка проверки email клиента: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	client := &domain.Client{
		Name:         input.Name,
		Email:        input.Email,
		ActiveClient: true,
	}
	if input.ActiveClient != nil {
		client.ActiveClient = *input.ActiveClient
	}

	if err := uc.storage.CreateClient(ctx, client); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("usecase: ошибка при создании клиента: %w", err)
	}

	uc.logger.Info("client registered", "id", client.ID)
	return client, nil
}

func (uc *clientUseCase) ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	clients, err := uc.storage.ListClients(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении списка клиентов: %w", err)
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

func (uc *clientUseCase) GetClientByID(ctx context.Context, id uint) (*domain.Client, error) {
	client, err := uc.storage.GetClientByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении клиента %d: %w", id, err)
	}
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

// UpdateClientByID не проверяет email заранее, дубликат ловит уникальный индекс
func (uc *clientUseCase) UpdateClientByID(ctx context.Context, id uint, patch domain.ClientPatch) (*domain.Client, error) {
	client, err := uc.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(uc.validate, patch); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		client.Name = *patch.Name
	}
	if patch.Email != nil {
		client.Email = *patch.Email
	}
	if patch.ActiveClient != nil {
		client.ActiveClient = *patch.ActiveClient
	}

	if err := uc.storage.SaveClient(ctx, client); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("usecase: ошибка при обновлении клиента %d: %w", id, err)
	}
	return client, nil
}

func (uc *clientUseCase) DeleteClientByID(ctx context.Context, id uint) (*domain.Client, error) {
	client, err := uc.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.ActiveClient = false
	if err := uc.storage.SaveClient(ctx, client); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при удалении клиента %d: %w", id, err)
	}

	uc.logger.Info("client deactivated", "id", id)
	return client, nil
}
