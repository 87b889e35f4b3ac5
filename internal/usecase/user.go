package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SalesApp/internal/core/ports"
	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase определяет бизнес-логику работы с пользователями API
type UserUseCase interface {
	// CreateUser регистрирует пользователя, email должен быть уникальным
	CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error)
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	// UpdateUserByID применяет частичное обновление, пароль хэшируется заново
	UpdateUserByID(ctx context.Context, id uint, patch domain.UserPatch) (*domain.User, error)
	// DeleteUserByID мягкое удаление: activeUser=false
	DeleteUserByID(ctx context.Context, id uint) (*domain.User, error)
}

type userUseCase struct {
	storage    ports.UserStorage
	validate   *validator.Validate
	bcryptCost int
	logger     *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(storage ports.UserStorage, bcryptCost int, logger *slog.Logger) UserUseCase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userUseCase{
		storage:    storage,
		validate:   newValidator(),
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (uc *userUseCase) CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	if err := validateStruct(uc.validate, input); err != nil {
		return nil, err
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.storage.GetUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка проверки email пользователя: %w", err)
	}
	if existing != nil {
		uc.logger.Info("user email already registered", "email", input.Email)
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка хэширования пароля: %w", err)
	}

	user := &domain.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   string(hash),
		ActiveUser: true,
	}
	if input.ActiveUser != nil {
		user.ActiveUser = *input.ActiveUser
	}

	if err := uc.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("usecase: ошибка при создании пользователя: %w", err)
	}

	uc.logger.Info("user registered", "id", user.ID)
	return user, nil
}

func (uc *userUseCase) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	users, err := uc.storage.ListUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении списка пользователей: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (uc *userUseCase) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := uc.storage.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении пользователя %d: %w", id, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (uc *userUseCase) UpdateUserByID(ctx context.Context, id uint, patch domain.UserPatch) (*domain.User, error) {
	user, err := uc.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(uc.validate, patch); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		if err := checkPasswordLength(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), uc.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка хэширования пароля: %w", err)
		}
		user.Password = string(hash)
	}
	if patch.ActiveUser != nil {
		user.ActiveUser = *patch.ActiveUser
	}

	if err := uc.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("usecase: ошибка при обновлении пользователя %d: %w", id, err)
	}
	return user, nil
}

func (uc *userUseCase) DeleteUserByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := uc.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.ActiveUser = false
	if err := uc.storage.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при удалении пользователя %d: %w", id, err)
	}

	uc.logger.Info("user deactivated", "id", id)
	return user, nil
}
