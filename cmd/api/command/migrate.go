package command

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xelth-com/docketgo/internal/config"
	"github.com/xelth-com/docketgo/internal/database"
)

type Migrate struct {
	Logger *logrus.Logger
}

func (cmd Migrate) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create tables, collections and indexes",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.main(ctx, cfg)
		},
	}
}

func (cmd Migrate) main(ctx context.Context, cfg *config.Config) error {
	st, err := database.OpenStore(ctx, cfg, cmd.Logger)
	if err != nil {
		return errors.Wrap(err, "migrate: failed to open store")
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return errors.Wrap(err, "migrate")
	}
	cmd.Logger.WithField("driver", cfg.StoreDriver).Info("✅ Schema synchronized successfully")
	return nil
}
