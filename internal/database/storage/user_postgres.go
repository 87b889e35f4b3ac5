package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SalesApp/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var userColumns = []string{"id", "name", "email", "password", "active_user", "created_at", "updated_at"}

// UserStorage реализует интерфейс ports.UserStorage с использованием sqlx
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

func (s *UserStorage) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.getOne(ctx, sq.Eq{"id": id})
}

func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, sq.Eq{"email": email})
}

func (s *UserStorage) getOne(ctx context.Context, where sq.Eq) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса пользователя: %w", err)
	}

	var user domain.User
	if err := s.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to select user", "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	return &user, nil
}

func (s *UserStorage) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	start := time.Now()

	b := psql.Select(userColumns...).From("users").OrderBy("id")
	if filter.Name != "" {
		b = b.Where(sq.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.Email != "" {
		b = b.Where(sq.Eq{"email": filter.Email})
	}
	if filter.Active != nil {
		b = b.Where(sq.Eq{"active_user": *filter.Active})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса списка пользователей: %w", err)
	}

	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}

	s.logger.Debug("listed users", "count", len(users), "duration_ms", time.Since(start).Milliseconds())
	return users, nil
}

func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	now := time.Now()
	query, args, err := psql.Insert("users").
		Columns("name", "email", "password", "active_user", "created_at", "updated_at").
		Values(user.Name, user.Email, user.Password, user.ActiveUser, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка построения запроса создания пользователя: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to insert user", "error", err)
		return fmt.Errorf("insert user: %w", err)
	}

	user.CreatedAt, user.UpdatedAt = now, now
	s.logger.Info("user created", "id", user.ID)
	return nil
}

func (s *UserStorage) SaveUser(ctx context.Context, user *domain.User) error {
	now := time.Now()
	query, args, err := psql.Update("users").
		SetMap(map[string]any{
			"name":        user.Name,
			"email":       user.Email,
			"password":    user.Password,
			"active_user": user.ActiveUser,
			"updated_at":  now,
		}).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка построения запроса обновления пользователя: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to update user", "id", user.ID, "error", err)
		return fmt.Errorf("update user: %w", err)
	}

	user.UpdatedAt = now
	return nil
}
