package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/service"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Long: `Sign a JWT with auth.jwt_secret. Send it as "Authorization: Bearer <token>"
when calling /person on a server with auth enabled.`,
		Example: `  askdb token --subject reporting-job --ttl 720h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			authSvc := service.NewAuthService(cfg.Auth.JWTSecret)
			token, err := authSvc.IssueJWT(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "askdb-cli", "Token subject (sub claim)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
