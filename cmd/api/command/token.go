package command

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xelth-com/docketgo/internal/config"
	"github.com/xelth-com/docketgo/internal/utils"
)

// Token mints bearer tokens for API clients
type Token struct {
	Logger *logrus.Logger
}

func (cmd Token) Command(cfg *config.Config) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	c := &cobra.Command{
		Use:   "token",
		Short: "issue a bearer token signed with JWT_SECRET",
		RunE: func(c *cobra.Command, _ []string) error {
			if cfg.JWTSecret == "" {
				return errors.New("token: JWT_SECRET is not set")
			}
			token, err := utils.GenerateToken(subject, cfg.JWTSecret, ttl)
			if err != nil {
				return errors.Wrap(err, "token")
			}
			cmd.Logger.WithFields(logrus.Fields{"subject": subject, "ttl": ttl.String()}).Info("🔑 Token issued")
			fmt.Fprintln(c.OutOrStdout(), token)
			return nil
		},
	}
	c.Flags().StringVar(&subject, "subject", "site-client", "token subject")
	c.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return c
}
