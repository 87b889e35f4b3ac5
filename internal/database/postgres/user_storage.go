package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"gorm.io/gorm"
)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// GetUserByID получает пользователя по первичному ключу
func (s *GormUserStorage) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	result := s.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		s.logger.Error("failed to get user by id", "id", id, "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID с помощью GORM: %w", result.Error)
	}
	return &user, nil
}

// GetUserByEmail ищет пользователя по точному совпадению email
func (s *GormUserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	result := s.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		s.logger.Error("failed to get user by email", "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении пользователя по email с помощью GORM: %w", result.Error)
	}
	return &user, nil
}

// ListUsers возвращает пользователей, включая неактивных, если фильтр этого не исключает
func (s *GormUserStorage) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	start := time.Now()

	q := s.db.WithContext(ctx).Model(&domain.User{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if filter.Active != nil {
		q = q.Where("active_user = ?", *filter.Active)
	}

	var users []domain.User
	if err := q.Order("id").Find(&users).Error; err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка пользователей с помощью GORM: %w", err)
	}

	s.logger.Debug("listed users", "count", len(users), "duration_ms", time.Since(start).Milliseconds())
	return users, nil
}

// CreateUser сохраняет нового пользователя, ID и временные метки заполняет БД
func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, domain.ErrEmailTaken) {
			return err
		}
		s.logger.Error("failed to create user", "error", err)
		return fmt.Errorf("ошибка при создании пользователя с помощью GORM: %w", err)
	}
	s.logger.Info("user created", "id", user.ID)
	return nil
}

// SaveUser сохраняет все поля существующего пользователя
func (s *GormUserStorage) SaveUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, domain.ErrEmailTaken) {
			return err
		}
		s.logger.Error("failed to save user", "id", user.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя с помощью GORM: %w", err)
	}
	return nil
}
