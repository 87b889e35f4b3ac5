package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/GoArmGo/SalesApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/SalesApp/internal/app"
	"github.com/GoArmGo/SalesApp/internal/config"
	"github.com/GoArmGo/SalesApp/internal/core/ports"
	"github.com/GoArmGo/SalesApp/internal/database/client"
	"github.com/GoArmGo/SalesApp/internal/database/memory"
	"github.com/GoArmGo/SalesApp/internal/database/postgres"
	"github.com/GoArmGo/SalesApp/internal/database/storage"
	"github.com/GoArmGo/SalesApp/internal/logger"
	"github.com/GoArmGo/SalesApp/internal/rabbitmq"
	"github.com/GoArmGo/SalesApp/internal/usecase"
)

// storages набор хранилищ выбранного драйвера
type storages struct {
	users   ports.UserStorage
	clients ports.ClientStorage
	sales   ports.SaleStorage
}

// BuildApp инициализирует все зависимости для режима mode и возвращает готовый объект App.
func BuildApp(ctx context.Context, mode string) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var deps app.Dependencies
	ok := false
	// при ошибке сборки закрываем уже открытые ресурсы
	defer func() {
		if !ok {
			for i := len(deps.Closers) - 1; i >= 0; i-- {
				_ = deps.Closers[i].Close()
			}
		}
	}()

	// 2. RabbitMQ
	var publisher ports.SaleEventPublisher = rabbitmq.NopPublisher{}
	var mq *rabbitmq.Client
	if cfg.RabbitMQ.URL != "" {
		mq, err = rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return nil, err
		}
		deps.Closers = append(deps.Closers, mq)
		publisher = mq
	} else {
		slogger.Warn("RABBITMQ_URL is empty, sale events are disabled")
	}

	// 3. Воркер: очередь и хранилище квитанций, база данных ему не нужна
	if mode == app.ModeWorker {
		if mq == nil {
			return nil, fmt.Errorf("режим worker требует RABBITMQ_URL")
		}
		if !cfg.ReceiptStorageEnabled() {
			return nil, fmt.Errorf("режим worker требует настроек MINIO_*")
		}
		fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			return nil, err
		}
		deps.Consumer = mq
		deps.Receipts = usecase.NewReceiptUseCase(fileStorage, slogger)
	} else {
		// 4. Хранилища и бизнес-логика API
		st, dbClient, err := buildStorages(cfg, slogger)
		if err != nil {
			return nil, err
		}
		if dbClient != nil {
			deps.Closers = append(deps.Closers, dbClient)
			deps.Health = dbClient.DB
		}

		deps.Users = usecase.NewUserUseCase(st.users, cfg.BcryptCost, slogger)
		deps.Clients = usecase.NewClientUseCase(st.clients, slogger)
		deps.Sales = usecase.NewSaleUseCase(st.sales, st.clients, publisher, slogger)
		deps.Auth = usecase.NewAuthUseCase(st.users, slogger)
	}

	ok = true
	slogger.Info("all dependencies initialized", "mode", mode, "storage_driver", cfg.StorageDriver)
	return app.NewApp(cfg, slogger, deps), nil
}

func buildStorages(cfg *config.Config, logger *slog.Logger) (storages, *client.Client, error) {
	if cfg.StorageDriver == config.DriverMemory {
		store := memory.NewStorage()
		logger.Warn("using in-memory storage, data is lost on restart")
		return storages{users: store, clients: store, sales: store}, nil, nil
	}

	dbClient, err := client.NewClient(cfg, logger)
	if err != nil {
		return storages{}, nil, err
	}
	if err := dbClient.SyncSchema(cfg.SchemaSync); err != nil {
		_ = dbClient.Close()
		return storages{}, nil, err
	}

	switch cfg.StorageDriver {
	case config.DriverSQLX:
		return storages{
			users:   storage.NewUserStorage(dbClient.DB, logger),
			clients: storage.NewClientStorage(dbClient.DB, logger),
			sales:   storage.NewSaleStorage(dbClient.DB, logger),
		}, dbClient, nil
	default:
		return storages{
			users:   postgres.NewGormUserStorage(dbClient.Gorm, logger),
			clients: postgres.NewGormClientStorage(dbClient.Gorm, logger),
			sales:   postgres.NewGormSaleStorage(dbClient.Gorm, logger),
		}, dbClient, nil
	}
}

// RunMigrations применяет встроенные SQL миграции и закрывает соединение.
func RunMigrations() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.StorageDriver == config.DriverMemory {
		return fmt.Errorf("миграции не применимы к STORAGE_DRIVER=memory")
	}

	slogger := logger.NewSlog(logger.SlogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})

	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return err
	}
	defer closeQuietly(dbClient, slogger)

	return dbClient.SyncSchema(config.SchemaMigrate)
}

func closeQuietly(c io.Closer, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "error", err)
	}
}
