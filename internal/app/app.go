package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/SalesApp/internal/config"
	"github.com/GoArmGo/SalesApp/internal/core/ports"
	"github.com/GoArmGo/SalesApp/internal/handler"
	"github.com/GoArmGo/SalesApp/internal/usecase"
)

// Режимы запуска.
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// Dependencies собранные контейнером зависимости.
// Режиму worker нужны Consumer и Receipts.
type Dependencies struct {
	Users   usecase.UserUseCase
	Clients usecase.ClientUseCase
	Sales   usecase.SaleUseCase
	Auth    usecase.AuthUseCase

	Receipts usecase.ReceiptUseCase
	Consumer ports.SaleEventConsumer

	Health handler.Pinger
	// Closers закрываются в обратном порядке при остановке
	Closers []io.Closer
}

type App struct {
	Config *config.Config
	logger *slog.Logger
	deps   Dependencies
}

func NewApp(cfg *config.Config, logger *slog.Logger, deps Dependencies) *App {
	return &App{
		Config: cfg,
		logger: logger,
		deps:   deps,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.router(), a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.deps.Consumer, a.deps.Receipts, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}
	return err
}

func (a *App) router() http.Handler {
	return handler.NewRouter(handler.RouterConfig{
		Users:              a.deps.Users,
		Clients:            a.deps.Clients,
		Sales:              a.deps.Sales,
		Auth:               a.deps.Auth,
		Health:             a.deps.Health,
		Metrics:            handler.NewMetrics(),
		Logger:             a.logger,
		RequestTimeout:     a.Config.RequestTimeout,
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
		RateLimitRPM:       a.Config.RateLimitRPM,
	})
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.deps.Closers) - 1; i >= 0; i-- {
		if err := a.deps.Closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.deps.Closers = nil
	return errors.Join(errs...)
}
