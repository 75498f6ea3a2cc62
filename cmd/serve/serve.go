// Package serve provides the serve command, running the JSON API server.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ecoparque/residuos-go/internal/api"
	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/evidence"
	"github.com/ecoparque/residuos-go/internal/logging"
	"github.com/ecoparque/residuos-go/internal/observability"
	"github.com/ecoparque/residuos-go/internal/records"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Long:  "Serve the record operations, statistics and backup endpoints over HTTP, with Prometheus metrics on /metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	cmd.Flags().StringVar(&settings.WebServer.Address, "address", viper.GetString("webserver.address"), "Listen address")
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Listen port")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		cobra.CheckErr(err)
	}

	return cmd
}

func runServer(settings *conf.Settings) error {
	logger := logging.Structured()

	if settings.Main.Log.Enabled {
		fileLogger, closeLog, err := logging.NewFileLogger(
			settings.Main.Log.Path, "server", slog.LevelInfo,
			logging.FileLoggerOptions{
				MaxSizeMB:  settings.Main.Log.MaxSizeMB,
				MaxBackups: settings.Main.Log.MaxBackups,
				MaxAgeDays: settings.Main.Log.MaxAgeDays,
			})
		if err != nil {
			logger.Error("file logging disabled", "path", settings.Main.Log.Path, "error", err)
		} else {
			logger = fileLogger
			defer func() {
				if err := closeLog(); err != nil {
					fmt.Fprintf(os.Stderr, "error closing log file: %v\n", err)
				}
			}()
		}
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	store := tablestore.New(settings, logger)
	backups := backup.NewManager(settings, logger)
	svc := records.NewService(settings, store, backups, evidence.New(settings, logger), metrics, logger)
	controller := api.New(settings, svc, backups, metrics, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- controller.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return controller.Shutdown(ctx)
	}
}
