package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv убирает переменные на время теста, t.Setenv вернет исходные значения
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetenv(t, "SERVER_PORT", "STORAGE_DRIVER", "SCHEMA_SYNC", "REQUEST_TIMEOUT", "BCRYPT_COST",
		"RABBITMQ_SALE_EVENTS_QUEUE", "MINIO_BUCKET_NAME", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY_ID", "MINIO_SECRET_ACCESS_KEY")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/sales?sslmode=disable")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, DriverGorm, cfg.StorageDriver)
	assert.Equal(t, SchemaAuto, cfg.SchemaSync)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "sale_events", cfg.RabbitMQ.SaleEventsQueue)
	assert.Equal(t, "sales-receipts", cfg.Minio.BucketName)
	assert.False(t, cfg.ReceiptStorageEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	unsetenv(t, "DATABASE_URL")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SCHEMA_SYNC", "none")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local,http://b.local")
	t.Setenv("RATE_LIMIT_RPM", "120")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_ACCESS_KEY_ID", "key")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 120, cfg.RateLimitRPM)
	assert.True(t, cfg.ReceiptStorageEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gorm without dsn", Config{StorageDriver: DriverGorm, SchemaSync: SchemaAuto}, true},
		{"sqlx with dsn", Config{StorageDriver: DriverSQLX, SchemaSync: SchemaMigrate, DatabaseURL: "postgres://x"}, false},
		{"memory without dsn", Config{StorageDriver: DriverMemory, SchemaSync: SchemaNone}, false},
		{"unknown driver", Config{StorageDriver: "mongo", SchemaSync: SchemaAuto}, true},
		{"unknown schema sync", Config{StorageDriver: DriverMemory, SchemaSync: "magic"}, true},
		{"negative rate limit", Config{StorageDriver: DriverMemory, SchemaSync: SchemaNone, RateLimitRPM: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
