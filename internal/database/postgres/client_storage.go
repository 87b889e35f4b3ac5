package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"gorm.io/gorm"
)

// GormClientStorage реализует интерфейс ports.ClientStorage с использованием GORM
type GormClientStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormClientStorage(db *gorm.DB, logger *slog.Logger) *GormClientStorage {
	return &GormClientStorage{db: db, logger: logger}
}

func (s *GormClientStorage) GetClientByID(ctx context.Context, id uint) (*domain.Client, error) {
	var client domain.Client
	result := s.db.WithContext(ctx).First(&client, id)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		s.logger.Error("failed to get client by id", "id", id, "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении клиента по ID с помощью GORM: %w", result.Error)
	}
	return &client, nil
}

func (s *GormClientStorage) GetClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var client domain.Client
	result := s.db.WithContext(ctx).Where("email = ?", email).First(&client)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		s.logger.Error("failed to get client by email", "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении клиента по email с помощью GORM: %w", result.Error)
	}
	return &client, nil
}

func (s *GormClientStorage) ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	q := s.db.WithContext(ctx).Model(&domain.Client{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if filter.Active != nil {
		q = q.Where("active_client = ?", *filter.Active)
	}

	var clients []domain.Client
	if err := q.Order("id").Find(&clients).Error; err != nil {
		s.logger.Error("failed to list clients", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка клиентов с помощью GORM: %w", err)
	}
	return clients, nil
}

func (s *GormClientStorage) CreateClient(ctx context.Context, client *domain.Client) error {
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, domain.ErrEmailTaken) {
			return err
		}
		s.logger.Error("failed to create client", "error", err)
		return fmt.Errorf("ошибка при создании клиента с помощью GORM: %w", err)
	}
	s.logger.Info("client created", "id", client.ID)
	return nil
}

func (s *GormClientStorage) SaveClient(ctx context.Context, client *domain.Client) error {
	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, domain.ErrEmailTaken) {
			return err
		}
		s.logger.Error("failed to save client", "id", client.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении клиента с помощью GORM: %w", err)
	}
	return nil
}
