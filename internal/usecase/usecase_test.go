package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GoArmGo/SalesApp/internal/database/memory"
	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/GoArmGo/SalesApp/internal/logger"
	"github.com/GoArmGo/SalesApp/internal/messaging/payloads"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []payloads.SaleEvent
	err    error
}

func (p *fakePublisher) PublishSaleEvent(_ context.Context, event payloads.SaleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeFileStorage struct {
	key         string
	body        []byte
	contentType string
	err         error
}

func (f *fakeFileStorage) UploadFile(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.body, f.contentType = key, body, contentType
	return "http://minio.local/sales-receipts/" + key, nil
}

var errBoom = errors.New("boom")

func num(v float64) *domain.Numeric {
	n := domain.Numeric(v)
	return &n
}

func ptr[T any](v T) *T {
	return &v
}

func newTestUserUseCase(t *testing.T) (UserUseCase, *memory.Storage) {
	t.Helper()
	store := memory.NewStorage()
	return NewUserUseCase(store, bcrypt.MinCost, logger.Discard()), store
}

func createActiveClient(t *testing.T, uc ClientUseCase, email string) *domain.Client {
	t.Helper()
	client, err := uc.CreateClient(context.Background(), domain.ClientInput{Name: "Cliente", Email: email})
	require.NoError(t, err)
	return client
}
