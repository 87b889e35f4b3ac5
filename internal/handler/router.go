package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/SalesApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger проверяет доступность хранилища для /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig зависимости HTTP-слоя.
type RouterConfig struct {
	Users   usecase.UserUseCase
	Clients usecase.ClientUseCase
	Sales   usecase.SaleUseCase
	Auth    usecase.AuthUseCase

	// Health может быть nil (хранилище в памяти)
	Health  Pinger
	Metrics *Metrics
	Logger  *slog.Logger

	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	RateLimitRPM       int
}

// NewRouter собирает chi-роутер: /api с Basic-авторизацией, /healthz и /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	users := NewUserHandler(cfg.Users, logger)
	clients := NewClientHandler(cfg.Clients, logger)
	sales := NewSaleHandler(cfg.Sales, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", healthz(cfg.Health, logger))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if len(cfg.CORSAllowedOrigins) > 0 {
			r.Use(CORS(cfg.CORSAllowedOrigins))
		}
		if cfg.RateLimitRPM > 0 {
			r.Use(RateLimit(cfg.RateLimitRPM, logger))
		}

		r.Post("/users", users.CreateUser)

		r.Group(func(r chi.Router) {
			r.Use(BasicAuth(cfg.Auth, logger))

			r.Get("/users", users.ListUsers)
			r.Get("/users/{id}", users.GetUserByID)
			r.Put("/users/{id}", users.UpdateUserByID)
			r.Delete("/users/{id}", users.DeleteUserByID)

			r.Post("/client", clients.CreateClient)
			r.Get("/client", clients.ListClients)
			r.Get("/client/{id}", clients.GetClientByID)
			r.Put("/client/{id}", clients.UpdateClientByID)
			r.Delete("/client/{id}", clients.DeleteClientByID)

			r.Post("/sales", sales.CreateSale)
			r.Get("/sales", sales.ListSales)
			r.Get("/sales/{id}", sales.GetSaleByID)
			r.Put("/sales/{id}", sales.UpdateSaleByID)
			r.Delete("/sales/{id}", sales.DeleteSaleByID)
		})
	})

	return r
}

func healthz(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				logger.Error("health check failed", "error", err)
				respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, logger)
				return
			}
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}
