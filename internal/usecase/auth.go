package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/SalesApp/internal/core/ports"
	"github.com/GoArmGo/SalesApp/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const basicPrefix = "Basic "

var (
	ErrAuthMissing       = errors.New("authorization header missing or invalid")
	ErrAuthUserNotFound  = errors.New("user not found")
	ErrAuthWrongPassword = errors.New("wrong password")
)

// AuthUseCase проверяет Basic-авторизацию при каждом запросе, без сессий
type AuthUseCase interface {
	Authenticate(ctx context.Context, authorization string) (*domain.User, error)
}

type authUseCase struct {
	users  ports.UserStorage
	logger *slog.Logger
}

func NewAuthUseCase(users ports.UserStorage, logger *slog.Logger) AuthUseCase {
	return &authUseCase{users: users, logger: logger}
}

func (uc *authUseCase) Authenticate(ctx context.Context, authorization string) (*domain.User, error) {
	email, password, ok := parseBasic(authorization)
	if !ok {
		return nil, ErrAuthMissing
	}

	user, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка поиска пользователя для авторизации: %w", err)
	}
	if user == nil {
		return nil, ErrAuthUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		uc.logger.Info("authentication failed", "user_id", user.ID)
		return nil, ErrAuthWrongPassword
	}
	return user, nil
}

// parseBasic разбирает заголовок "Basic base64(email:password)" по первому двоеточию
func parseBasic(header string) (email, password string, ok bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(basicPrefix):]))
	if err != nil {
		return "", "", false
	}
	email, password, _ = strings.Cut(string(decoded), ":")
	return email, password, true
}
