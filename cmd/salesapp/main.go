package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/GoArmGo/SalesApp/internal/app"
	"github.com/GoArmGo/SalesApp/internal/di"
	"github.com/spf13/cobra"
)

// bootstrap-логгер (используется только на этапе инициализации т.к еще не создан основной логгер)
var bootstrapLogger = slog.New(
	slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
)

var rootCmd = &cobra.Command{
	Use:           "salesapp",
	Short:         "Sales API: users, clients and sales over HTTP",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func runMode(mode string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		bootstrapLogger.Info("starting application", "mode", mode)

		application, err := di.BuildApp(cmd.Context(), mode)
		if err != nil {
			return err
		}

		log := application.LoggerIns()
		if err := application.Run(cmd.Context(), mode); err != nil {
			log.Error("application run failed", "error", err)
			return err
		}

		log.Info("application stopped gracefully")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "server",
			Short: "Run the HTTP API",
			RunE:  runMode(app.ModeServer),
		},
		&cobra.Command{
			Use:   "worker",
			Short: "Consume sale events and archive receipts to S3/MinIO",
			RunE:  runMode(app.ModeWorker),
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply embedded SQL migrations and exit",
			RunE: func(_ *cobra.Command, _ []string) error {
				if err := di.RunMigrations(); err != nil {
					return err
				}
				bootstrapLogger.Info("migrations applied")
				return nil
			},
		},
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		bootstrapLogger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
