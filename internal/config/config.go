package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Драйверы хранилища.
const (
	DriverGorm   = "gorm"
	DriverSQLX   = "sqlx"
	DriverMemory = "memory"
)

// Режимы синхронизации схемы БД.
const (
	SchemaAuto    = "auto"
	SchemaMigrate = "migrate"
	SchemaNone    = "none"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"3000"`
	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"gorm"`
	SchemaSync     string        `env:"SCHEMA_SYNC" envDefault:"auto"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RateLimitRPM       int      `env:"RATE_LIMIT_RPM" envDefault:"0"`

	RabbitMQ struct {
		URL             string `env:"RABBITMQ_URL"`
		SaleEventsQueue string `env:"RABBITMQ_SALE_EVENTS_QUEUE" envDefault:"sale_events"`
	}

	// Хранилище квитанций, нужно только воркеру
	Minio struct {
		Endpoint        string `env:"MINIO_ENDPOINT"`
		AccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
		SecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
		UseSSL          bool   `env:"MINIO_USE_SSL"`
		BucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"sales-receipts"`
		Region          string `env:"MINIO_REGION" envDefault:"us-east-1"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	return &cfg, nil
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverGorm, DriverSQLX:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for storage driver " + c.StorageDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (use gorm, sqlx or memory)", c.StorageDriver)
	}

	switch c.SchemaSync {
	case SchemaAuto, SchemaMigrate, SchemaNone:
	default:
		return fmt.Errorf("unknown SCHEMA_SYNC %q (use auto, migrate or none)", c.SchemaSync)
	}

	if c.RateLimitRPM < 0 {
		return errors.New("RATE_LIMIT_RPM must not be negative")
	}
	return nil
}

// ReceiptStorageEnabled сообщает, настроено ли хранилище квитанций
func (c *Config) ReceiptStorageEnabled() bool {
	return c.Minio.Endpoint != "" && c.Minio.AccessKeyID != "" && c.Minio.SecretAccessKey != ""
}
