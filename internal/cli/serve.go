package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/products-catalog/internal/app/service"
	"github.com/mrops-br/products-catalog/internal/infrastructure/auth"
	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http/handler"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http/view"
	"github.com/mrops-br/products-catalog/internal/infrastructure/telemetry"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server until SIGINT or SIGTERM, then shut down gracefully
within SERVER_SHUTDOWN_TIMEOUT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	telem, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telem.Shutdown(shutdownCtx)
	}()

	tracer := telem.TracerProvider.Tracer("products-catalog")
	meter := telem.MeterProvider.Meter("products-catalog")
	logger := telem.Logger

	logger.Info("Starting Products Catalog")

	repo, closeRepo, err := openRepository(ctx, &cfg.Store, tracer, logger)
	if err != nil {
		return fmt.Errorf("failed to open product store: %w", err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Error("Failed to close product store", slog.String("error", err.Error()))
		}
	}()

	productService := service.NewProductService(repo, tracer, meter, logger)

	views, err := view.NewRenderer()
	if err != nil {
		return err
	}
	apiHandler, err := handler.NewAPIHandler(productService, cfg.Auth.APIRequireAdmin, logger)
	if err != nil {
		return err
	}
	productHandler := handler.NewProductHandler(productService, views, cfg.Auth.LoginURL, logger)

	server := http.NewServer(cfg, productHandler, apiHandler, auth.NewSessions(&cfg.Auth), telem)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
