package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/SalesApp/internal/domain"
	"github.com/GoArmGo/SalesApp/internal/usecase"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

const (
	msgInvalidJSON    = "JSON inválido."
	msgEmailTaken     = "E-mail já cadastrado."
	msgAuthMissing    = "Autorização ausente ou invalida."
	msgAuthNotFound   = "Usuário não encontrado."
	msgAuthBadSecret  = "Senha incorreta."
	msgAuthFailure    = "Erro ao validar autorização."
	msgTooManyRequest = "Muitas requisições, tente novamente mais tarde."
)

type ctxKey int

const userCtxKey ctxKey = iota

// UserFromContext возвращает пользователя, прошедшего Basic-авторизацию.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*domain.User)
	return user, ok
}

// BasicAuth: middleware, проверяющий заголовок Authorization на каждом запросе.
func BasicAuth(auth usecase.AuthUseCase, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				switch {
				case errors.Is(err, usecase.ErrAuthMissing):
					respondWithMessage(w, http.StatusUnauthorized, msgAuthMissing, logger)
				case errors.Is(err, usecase.ErrAuthUserNotFound):
					respondWithMessage(w, http.StatusUnauthorized, msgAuthNotFound, logger)
				case errors.Is(err, usecase.ErrAuthWrongPassword):
					respondWithMessage(w, http.StatusUnauthorized, msgAuthBadSecret, logger)
				default:
					logger.Error("authentication lookup failed", "error", err)
					respondWithMessage(w, http.StatusInternalServerError, msgAuthFailure, logger)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger: middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RateLimit: глобальный token bucket на rpm запросов в минуту.
func RateLimit(rpm int, logger *slog.Logger) func(next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60), rpm)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warn("rate limit exceeded", "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				respondWithMessage(w, http.StatusTooManyRequests, msgTooManyRequest, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS разрешает кросс-доменные запросы с перечисленных origin.
func CORS(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
