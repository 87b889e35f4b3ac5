package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GoArmGo/SalesApp/internal/database/memory"
	"github.com/GoArmGo/SalesApp/internal/logger"
	"github.com/GoArmGo/SalesApp/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testEmail, testPassword = "a@x.com", "p"

func newTestRouter(t *testing.T, mutate func(*RouterConfig)) http.Handler {
	t.Helper()
	store := memory.NewStorage()
	log := logger.Discard()

	cfg := RouterConfig{
		Users:   usecase.NewUserUseCase(store, bcrypt.MinCost, log),
		Clients: usecase.NewClientUseCase(store, log),
		Sales:   usecase.NewSaleUseCase(store, store, nil, log),
		Auth:    usecase.NewAuthUseCase(store, log),
		Metrics: NewMetrics(),
		Logger:  log,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRouter(cfg)
}

func authHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func do(t *testing.T, h http.Handler, method, path, body, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signUp регистрирует пользователя и возвращает заголовок авторизации
func signUp(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/users", `{"name":"A","email":"a@x.com","password":"p"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return authHeader(testEmail, testPassword)
}

func TestCreateUser(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/users", `{"name":"A","email":"a@x.com","password":"p"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeObject(t, rec)
	assert.Equal(t, true, body["activeUser"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, body, "password")

	rec = do(t, h, http.MethodPost, "/api/users", `{"name":"A","email":"a@x.com","password":"p"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "E-mail já cadastrado."}, decodeObject(t, rec))

	rec = do(t, h, http.MethodPost, "/api/users", `{"name":`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "JSON inválido.", decodeObject(t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/api/users", `{"name":"B","email":"nope","password":"p"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeObject(t, rec)["error"])
}

func TestBasicAuthGate(t *testing.T) {
	h := newTestRouter(t, nil)
	signUp(t, h)

	tests := []struct {
		name    string
		auth    string
		code    int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Autorização ausente ou invalida."},
		{"wrong scheme", "Bearer token", http.StatusUnauthorized, "Autorização ausente ou invalida."},
		{"unknown email", authHeader("z@x.com", "p"), http.StatusUnauthorized, "Usuário não encontrado."},
		{"wrong password", authHeader(testEmail, "bad"), http.StatusUnauthorized, "Senha incorreta."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/users", "", tt.auth)
			require.Equal(t, tt.code, rec.Code)
			assert.Equal(t, map[string]any{"message": tt.message}, decodeObject(t, rec))
		})
	}

	t.Run("valid credentials", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/users", "", authHeader(testEmail, testPassword))
		require.Equal(t, http.StatusOK, rec.Code)
		var users []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		assert.Len(t, users, 1)
	})
}

func TestUserRoutes(t *testing.T) {
	h := newTestRouter(t, nil)
	auth := signUp(t, h)

	rec := do(t, h, http.MethodGet, "/api/users/abc", "", auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Usuário não encontrado com o id: abc", decodeObject(t, rec)["message"])

	rec = do(t, h, http.MethodGet, "/api/users/99", "", auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Usuário não encontrado com o id: 99", decodeObject(t, rec)["message"])

	rec = do(t, h, http.MethodPut, "/api/users/1", `{"name":"Novo"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObject(t, rec)
	assert.Equal(t, "Usuário atualizado com sucesso.", body["message"])
	assert.Equal(t, "Novo", body["updateUser"].(map[string]any)["name"])

	for i := 0; i < 2; i++ {
		rec = do(t, h, http.MethodDelete, "/api/users/1", "", auth)
		require.Equal(t, http.StatusOK, rec.Code)
		body = decodeObject(t, rec)
		assert.Equal(t, "Usuário deletado com sucesso.", body["message"])
		assert.Equal(t, false, body["deleteUser"].(map[string]any)["activeUser"])
	}

	rec = do(t, h, http.MethodGet, "/api/users?active=false", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 1)
}

func TestClientRoutes(t *testing.T) {
	h := newTestRouter(t, nil)
	auth := signUp(t, h)

	rec := do(t, h, http.MethodPost, "/api/client", `{"name":"C","email":"c@x.com"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/client", `{"name":"C","email":"c@x.com"}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, decodeObject(t, rec)["activeClient"])

	rec = do(t, h, http.MethodPost, "/api/client", `{"name":"C2","email":"c@x.com"}`, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "E-mail já cadastrado.", decodeObject(t, rec)["error"])

	rec = do(t, h, http.MethodPut, "/api/client/1", `{"name":"C3"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObject(t, rec)
	assert.Equal(t, "Cliente atualizado com sucesso.", body["message"])
	assert.Equal(t, "C3", body["updateClint"].(map[string]any)["name"])

	rec = do(t, h, http.MethodGet, "/api/client/7", "", auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cliente não encontrado com o id: 7", decodeObject(t, rec)["message"])

	for i := 0; i < 2; i++ {
		rec = do(t, h, http.MethodDelete, "/api/client/1", "", auth)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeObject(t, rec)["deleteClient"].(map[string]any)["activeClient"])
	}
}

func TestSaleRoutes(t *testing.T) {
	h := newTestRouter(t, nil)
	auth := signUp(t, h)

	rec := do(t, h, http.MethodPost, "/api/client", `{"name":"C","email":"c@x.com"}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sales", `{"nameProduct":"Caneta","quantityItems":3,"valueItem":2.5,"clientId":99}`, auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cliente não encontrado com o id: 99, não é possível cadastrar a venda.", decodeObject(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/api/sales", `{"nameProduct":"Caneta","quantityItems":3,"valueItem":2.5,"clientId":1,"totalValue":999}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	sale := decodeObject(t, rec)
	assert.Equal(t, 7.5, sale["totalValue"])
	assert.Equal(t, true, sale["activeSales"])
	assert.Equal(t, float64(1), sale["clientId"])

	rec = do(t, h, http.MethodPut, "/api/sales/1", `{"quantityItems":5}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObject(t, rec)
	assert.Equal(t, "Venda atualizada com sucesso.", body["message"])
	assert.Equal(t, 12.5, body["updateSales"].(map[string]any)["totalValue"])

	rec = do(t, h, http.MethodGet, "/api/sales?clientId=1&active=true", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var sales []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Len(t, sales, 1)

	rec = do(t, h, http.MethodDelete, "/api/sales/1", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeObject(t, rec)
	assert.Equal(t, "Venda deletada com sucesso.", body["message"])
	assert.Equal(t, false, body["deleteSales"].(map[string]any)["activeSales"])

	rec = do(t, h, http.MethodDelete, "/api/sales/1", "", auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Venda não encontrada ou deletada, com o id: 1", decodeObject(t, rec)["message"])

	rec = do(t, h, http.MethodGet, "/api/sales/1", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/sales/42", "", auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Venda não encontrada com o id: 42", decodeObject(t, rec)["message"])
}

func TestCreateSaleRejectsInactiveClient(t *testing.T) {
	h := newTestRouter(t, nil)
	auth := signUp(t, h)

	rec := do(t, h, http.MethodPost, "/api/client", `{"name":"C","email":"c@x.com","activeClient":false}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sales", `{"nameProduct":"P","quantityItems":"2","valueItem":"x","clientId":"1"}`, auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaleRoutesRejectHugeNumbers(t *testing.T) {
	h := newTestRouter(t, nil)
	auth := signUp(t, h)

	rec := do(t, h, http.MethodPost, "/api/client", `{"name":"C","email":"c@x.com"}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sales", `{"nameProduct":"P","quantityItems":3,"valueItem":1e308,"clientId":1}`, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "O valor total da venda excede o limite permitido.", decodeObject(t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/api/sales", `{"nameProduct":"P","quantityItems":1e300,"valueItem":2.5,"clientId":1}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	sale := decodeObject(t, rec)
	assert.Equal(t, float64(0), sale["quantityItems"])
	assert.Equal(t, float64(0), sale["totalValue"])

	rec = do(t, h, http.MethodGet, "/api/sales", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var sales []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	assert.Len(t, sales, 1)
}

func TestRespondWithJSONMarshalFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithJSON(rec, http.StatusOK, map[string]float64{"totalValue": math.Inf(1)}, logger.Discard())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"message": "Erro interno."}, decodeObject(t, rec))
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestOperationalRoutes(t *testing.T) {
	t.Run("healthz and metrics", func(t *testing.T) {
		h := newTestRouter(t, nil)

		rec := do(t, h, http.MethodGet, "/healthz", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"status": "ok"}, decodeObject(t, rec))

		rec = do(t, h, http.MethodGet, "/metrics", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "salesapp_http_requests_total")
	})

	t.Run("healthz reports store failure", func(t *testing.T) {
		h := newTestRouter(t, func(cfg *RouterConfig) {
			cfg.Health = pingerFunc(func(context.Context) error { return errors.New("down") })
		})

		rec := do(t, h, http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("rate limit", func(t *testing.T) {
		h := newTestRouter(t, func(cfg *RouterConfig) { cfg.RateLimitRPM = 1 })

		rec := do(t, h, http.MethodGet, "/api/users", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = do(t, h, http.MethodGet, "/api/users", "", "")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		h := newTestRouter(t, func(cfg *RouterConfig) { cfg.CORSAllowedOrigins = []string{"http://front.local"} })

		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		req.Header.Set("Origin", "http://front.local")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "http://front.local", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
