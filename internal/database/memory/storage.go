// Package memory хранит пользователей, клиентов и продажи в памяти процесса.
// Используется для локального запуска (STORAGE_DRIVER=memory) и в тестах.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/SalesApp/internal/domain"
)

// Storage реализует ports.UserStorage, ports.ClientStorage и ports.SaleStorage.
// Ведет себя как таблицы с автоинкрементом и уникальным индексом на email.
type Storage struct {
	mu      sync.RWMutex
	users   map[uint]domain.User
	clients map[uint]domain.Client
	sales   map[uint]domain.Sale

	nextUserID   uint
	nextClientID uint
	nextSaleID   uint

	now func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		users:   make(map[uint]domain.User),
		clients: make(map[uint]domain.Client),
		sales:   make(map[uint]domain.Sale),
		now:     time.Now,
	}
}

func (s *Storage) GetUserByID(_ context.Context, id uint) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Storage) ListUsers(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if !matches(u.Name, u.Email, u.ActiveUser, filter.Name, filter.Email, filter.Active) {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Storage) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userEmailTaken(user.Email, 0) {
		return domain.ErrEmailTaken
	}
	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userEmailTaken(user.Email, user.ID) {
		return domain.ErrEmailTaken
	}
	user.UpdatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) userEmailTaken(email string, except uint) bool {
	for id, u := range s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s *Storage) GetClientByID(_ context.Context, id uint) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Storage) GetClientByEmail(_ context.Context, email string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Storage) ListClients(_ context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clients := make([]domain.Client, 0, len(s.clients))
	for _, c := range s.clients {
		if !matches(c.Name, c.Email, c.ActiveClient, filter.Name, filter.Email, filter.Active) {
			continue
		}
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients, nil
}

func (s *Storage) CreateClient(_ context.Context, client *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clientEmailTaken(client.Email, 0) {
		return domain.ErrEmailTaken
	}
	s.nextClientID++
	now := s.now()
	client.ID = s.nextClientID
	client.CreatedAt, client.UpdatedAt = now, now
	s.clients[client.ID] = *client
	return nil
}

func (s *Storage) SaveClient(_ context.Context, client *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clientEmailTaken(client.Email, client.ID) {
		return domain.ErrEmailTaken
	}
	client.UpdatedAt = s.now()
	s.clients[client.ID] = *client
	return nil
}

func (s *Storage) clientEmailTaken(email string, except uint) bool {
	for id, c := range s.clients {
		if id != except && c.Email == email {
			return true
		}
	}
	return false
}

func (s *Storage) GetSaleByID(_ context.Context, id uint) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, nil
	}
	return &sale, nil
}

func (s *Storage) ListSales(_ context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sales := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		if filter.ClientID != nil && sale.ClientID != *filter.ClientID {
			continue
		}
		if filter.Active != nil && sale.ActiveSales != *filter.Active {
			continue
		}
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].ID < sales[j].ID })
	return sales, nil
}

func (s *Storage) CreateSale(_ context.Context, sale *domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSaleID++
	now := s.now()
	sale.ID = s.nextSaleID
	sale.CreatedAt, sale.UpdatedAt = now, now
	s.sales[sale.ID] = *sale
	return nil
}

func (s *Storage) SaveSale(_ context.Context, sale *domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale.UpdatedAt = s.now()
	s.sales[sale.ID] = *sale
	return nil
}

// matches повторяет семантику фильтров SQL-хранилищ:
// подстрока без учета регистра для имени, точное совпадение для email.
func matches(name, email string, active bool, wantName, wantEmail string, wantActive *bool) bool {
	if wantName != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(wantName)) {
		return false
	}
	if wantEmail != "" && email != wantEmail {
		return false
	}
	if wantActive != nil && active != *wantActive {
		return false
	}
	return true
}
