package cli

import (
	"fmt"

	"github.com/mrops-br/products-catalog/internal/infrastructure/auth"
	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	var (
		subject string
		admin   bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for development and tests",
		Long: `Mint an HS256 session token signed with AUTH_TOKEN_SECRET.

Send it as the session cookie (AUTH_COOKIE_NAME) or as an
"Authorization: Bearer" header.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			token, err := auth.NewSessions(&cfg.Auth).Issue(subject, admin)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "subject (user id) the token is issued for")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the administrator flag")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
