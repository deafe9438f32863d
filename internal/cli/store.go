package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	"github.com/mrops-br/products-catalog/internal/infrastructure/repository/memory"
	"github.com/mrops-br/products-catalog/internal/infrastructure/repository/sqlstore"
	"go.opentelemetry.io/otel/trace"
)

// openRepository builds the product repository selected by STORE_DRIVER.
// The returned close function is never nil.
func openRepository(ctx context.Context, cfg *config.StoreConfig, tracer trace.Tracer, logger *slog.Logger) (domain.ProductRepository, func() error, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory product store; data is lost on restart")
		return memory.NewProductRepository(tracer, logger), func() error { return nil }, nil
	}

	db, dialect, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.AutoMigrate {
		if err := sqlstore.Migrate(ctx, db, dialect); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("Products schema applied", slog.String("driver", cfg.Driver))
	}

	return sqlstore.NewProductRepository(db, tracer, logger), db.Close, nil
}

func openDatabase(ctx context.Context, cfg *config.StoreConfig) (*sql.DB, sqlstore.Dialect, error) {
	var dialect sqlstore.Dialect
	switch cfg.Driver {
	case config.DriverPostgres:
		dialect = sqlstore.Postgres
	case config.DriverSQLite:
		dialect = sqlstore.SQLite
	default:
		return nil, "", fmt.Errorf("%w: %q has no database", config.ErrUnknownDriver, cfg.Driver)
	}

	db, err := sqlstore.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, "", err
	}
	return db, dialect, nil
}
