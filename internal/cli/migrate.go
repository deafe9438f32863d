package cli

import (
	"errors"
	"fmt"

	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	"github.com/mrops-br/products-catalog/internal/infrastructure/repository/sqlstore"
	"github.com/spf13/cobra"
)

var errMemoryStore = errors.New("migrate needs STORE_DRIVER=postgres or sqlite")

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the products table in the configured SQL store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if cfg.Store.Driver == config.DriverMemory {
				return errMemoryStore
			}

			db, dialect, err := openDatabase(cmd.Context(), &cfg.Store)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlstore.Migrate(cmd.Context(), db, dialect); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "products schema applied (%s)\n", dialect)
			return nil
		},
	}
}
