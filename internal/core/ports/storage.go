package ports

import (
	"context"

	"github.com/GoArmGo/SalesApp/internal/domain"
)

// Хранилища возвращают (nil, nil), если запись не найдена,
// и domain.ErrEmailTaken при нарушении уникальности email.

// UserStorage определяет методы для взаимодействия с таблицей users
type UserStorage interface {
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	SaveUser(ctx context.Context, user *domain.User) error
}

// ClientStorage определяет методы для взаимодействия с таблицей clients
type ClientStorage interface {
	GetClientByID(ctx context.Context, id uint) (*domain.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*domain.Client, error)
	ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error)
	CreateClient(ctx context.Context, client *domain.Client) error
	SaveClient(ctx context.Context, client *domain.Client) error
}

// SaleStorage определяет методы для взаимодействия с таблицей sales
type SaleStorage interface {
	GetSaleByID(ctx context.Context, id uint) (*domain.Sale, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	CreateSale(ctx context.Context, sale *domain.Sale) error
	SaveSale(ctx context.Context, sale *domain.Sale) error
}

// FileStorage порт для хранения бинарных данных (квитанции продаж в S3/MinIO)
type FileStorage interface {
	UploadFile(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
