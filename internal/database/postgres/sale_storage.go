package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"gorm.io/gorm"
)

// GormSaleStorage реализует интерфейс ports.SaleStorage с использованием GORM
type GormSaleStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormSaleStorage(db *gorm.DB, logger *slog.Logger) *GormSaleStorage {
	return &GormSaleStorage{db: db, logger: logger}
}

func (s *GormSaleStorage) GetSaleByID(ctx context.Context, id uint) (*domain.Sale, error) {
	var sale domain.Sale
	result := s.db.WithContext(ctx).First(&sale, id)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		s.logger.Error("failed to get sale by id", "id", id, "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении продажи по ID с помощью GORM: %w", result.Error)
	}
	return &sale, nil
}

func (s *GormSaleStorage) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	q := s.db.WithContext(ctx).Model(&domain.Sale{})
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Active != nil {
		q = q.Where("active_sales = ?", *filter.Active)
	}

	var sales []domain.Sale
	if err := q.Order("id").Find(&sales).Error; err != nil {
		s.logger.Error("failed to list sales", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка продаж с помощью GORM: %w", err)
	}
	return sales, nil
}

func (s *GormSaleStorage) CreateSale(ctx context.Context, sale *domain.Sale) error {
	if err := s.db.WithContext(ctx).Create(sale).Error; err != nil {
		s.logger.Error("failed to create sale", "client_id", sale.ClientID, "error", err)
		return fmt.Errorf("ошибка при создании продажи с помощью GORM: %w", err)
	}
	s.logger.Info("sale created", "id", sale.ID, "client_id", sale.ClientID)
	return nil
}

func (s *GormSaleStorage) SaveSale(ctx context.Context, sale *domain.Sale) error {
	if err := s.db.WithContext(ctx).Save(sale).Error; err != nil {
		s.logger.Error("failed to save sale", "id", sale.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении продажи с помощью GORM: %w", err)
	}
	return nil
}
