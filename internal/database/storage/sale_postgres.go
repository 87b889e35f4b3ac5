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

var saleColumns = []string{
	"id", "name_product", "quantity_items", "value_item", "total_value",
	"active_sales", "client_id", "created_at", "updated_at",
}

// SaleStorage реализует интерфейс ports.SaleStorage с использованием sqlx
type SaleStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSaleStorage(db *sqlx.DB, logger *slog.Logger) *SaleStorage {
	return &SaleStorage{db: db, logger: logger}
}

func (s *SaleStorage) GetSaleByID(ctx context.Context, id uint) (*domain.Sale, error) {
	query, args, err := psql.Select(saleColumns...).From("sales").Where(sq.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса продажи: %w", err)
	}

	var sale domain.Sale
	if err := s.db.GetContext(ctx, &sale, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to select sale", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении продажи по ID: %w", err)
	}
	return &sale, nil
}

func (s *SaleStorage) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	b := psql.Select(saleColumns...).From("sales").OrderBy("id")
	if filter.ClientID != nil {
		b = b.Where(sq.Eq{"client_id": *filter.ClientID})
	}
	if filter.Active != nil {
		b = b.Where(sq.Eq{"active_sales": *filter.Active})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса списка продаж: %w", err)
	}

	sales := []domain.Sale{}
	if err := s.db.SelectContext(ctx, &sales, query, args...); err != nil {
		s.logger.Error("failed to list sales", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка продаж: %w", err)
	}
	return sales, nil
}

func (s *SaleStorage) CreateSale(ctx context.Context, sale *domain.Sale) error {
	now := time.Now()
	query, args, err := psql.Insert("sales").
		Columns("name_product", "quantity_items", "value_item", "total_value", "active_sales", "client_id", "created_at", "updated_at").
		Values(sale.NameProduct, sale.QuantityItems, sale.ValueItem, sale.TotalValue, sale.ActiveSales, sale.ClientID, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка построения запроса создания продажи: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&sale.ID); err != nil {
		s.logger.Error("failed to insert sale", "client_id", sale.ClientID, "error", err)
		return fmt.Errorf("insert sale: %w", err)
	}

	sale.CreatedAt, sale.UpdatedAt = now, now
	s.logger.Info("sale created", "id", sale.ID, "client_id", sale.ClientID)
	return nil
}

func (s *SaleStorage) SaveSale(ctx context.Context, sale *domain.Sale) error {
	now := time.Now()
	query, args, err := psql.Update("sales").
		SetMap(map[string]any{
			"name_product":   sale.NameProduct,
			"quantity_items": sale.QuantityItems,
			"value_item":     sale.ValueItem,
			"total_value":    sale.TotalValue,
			"active_sales":   sale.ActiveSales,
			"client_id":      sale.ClientID,
			"updated_at":     now,
		}).
		Where(sq.Eq{"id": sale.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка построения запроса обновления продажи: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("failed to update sale", "id", sale.ID, "error", err)
		return fmt.Errorf("update sale: %w", err)
	}

	sale.UpdatedAt = now
	return nil
}
