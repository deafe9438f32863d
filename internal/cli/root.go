// Package cli wires the catalog command line: serve, migrate and token.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the catalog command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog",
		Short: "Product catalog service",
		Long: `Product catalog service.

Configuration is read from the environment; a .env file in the working
directory is loaded first when present.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newTokenCommand(),
	)

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
