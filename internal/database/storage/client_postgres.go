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

var clientColumns = []string{"id", "name", "email", "active_client", "created_at", "updated_at"}

// ClientStorage реализует интерфейс ports.ClientStorage с использованием sqlx
type ClientStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewClientStorage(db *sqlx.DB, logger *slog.Logger) *ClientStorage {
	return &ClientStorage{db: db, logger: logger}
}

func (s *ClientStorage) GetClientByID(ctx context.Context, id uint) (*domain.Client, error) {
	return s.getOne(ctx, sq.Eq{"id": id})
}

func (s *ClientStorage) GetClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return s.getOne(ctx, sq.Eq{"email": email})
}

func (s *ClientStorage) getOne(ctx context.Context, where sq.Eq) (*domain.Client, error) {
	query, args, err := psql.Select(clientColumns...).From("clients").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса клиента: %w", err)
	}

	var client domain.Client
	if err := s.db.GetContext(ctx, &client, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to select client", "error", err)
		return nil, fmt.Errorf("ошибка при получении клиента: %w", err)
	}
	return &client, nil
}

func (s *ClientStorage) ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	b := psql.Select(clientColumns...).From("clients").OrderBy("id")
	if filter.Name != "" {
		b = b.Where(sq.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.Email != "" {
		b = b.Where(sq.Eq{"email": filter.Email})
	}
	if filter.Active != nil {
		b = b.Where(sq.Eq{"active_client": *filter.Active})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса списка клиентов: %w", err)
	}

	clients := []domain.Client{}
	if err := s.db.SelectContext(ctx, &clients, query, args...); err != nil {
		s.logger.Error("failed to list clients", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка клиентов: %w", err)
	}
	return clients, nil
}

func (s *ClientStorage) CreateClient(ctx context.Context, client *domain.Client) error {
	now := time.Now()
	query, args, err := psql.Insert("clients").
		Columns("name", "email", "active_client", "created_at", "updated_at").
		Values(client.Name, client.Email, client.ActiveClient, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка построения запроса создания клиента: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&client.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to insert client", "error", err)
		return fmt.Errorf("insert client: %w", err)
	}

	client.CreatedAt, client.UpdatedAt = now, now
	s.logger.Info("client created", "id", client.ID)
	return nil
}

func (s *ClientStorage) SaveClient(ctx context.Context, client *domain.Client) error {
	now := time.Now()
	query, args, err := psql.Update("clients").
		SetMap(map[string]any{
			"name":          client.Name,
			"email":         client.Email,
			"active_client": client.ActiveClient,
			"updated_at":    now,
		}).
		Where(sq.Eq{"id": client.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка построения запроса обновления клиента: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to update client", "id", client.ID, "error", err)
		return fmt.Errorf("update client: %w", err)
	}

	client.UpdatedAt = now
	return nil
}
