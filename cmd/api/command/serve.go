package command

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xelth-com/docketgo/internal/buildinfo"
	"github.com/xelth-com/docketgo/internal/config"
	"github.com/xelth-com/docketgo/internal/database"
	"github.com/xelth-com/docketgo/internal/handlers"
	"github.com/xelth-com/docketgo/internal/websocket"
)

type Serve struct {
	Logger *logrus.Logger
}

func (cmd Serve) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.main(ctx, cfg)
		},
	}
}

func (cmd Serve) main(ctx context.Context, cfg *config.Config) error {
	cmd.Logger.Infof("🚀 %s starting (env: %s)", buildinfo.String(), cfg.NodeEnv)

	st, err := database.OpenStore(ctx, cfg, cmd.Logger)
	if err != nil {
		return errors.Wrap(err, "serve: failed to open store")
	}
	defer func() {
		// Close database (this also stops embedded PostgreSQL)
		cmd.Logger.Info("🛑 Closing store...")
		if err := st.Close(); err != nil {
			cmd.Logger.WithError(err).Error("Store close error")
		}
	}()

	if cfg.Database.Alter {
		cmd.Logger.Info("🚀 Synchronizing database schema...")
		if err := st.Migrate(ctx); err != nil {
			cmd.Logger.WithError(err).Warn("⚠️ Migration warning")
		} else {
			cmd.Logger.Info("✅ Schema synchronized successfully")
		}
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(cmd.Logger)
	go hub.Run(hubCtx)

	if cfg.JWTSecret == "" {
		cmd.Logger.Warn("⚠️ JWT_SECRET not set, mutating routes are unauthenticated")
	}

	router := handlers.NewRouter(handlers.Config{
		Store:     st,
		Hub:       hub,
		Logger:    cmd.Logger,
		JWTSecret: cfg.JWTSecret,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		cmd.Logger.Infof("🚀 Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "serve: failed to start server")
	case <-ctx.Done():
	}

	cmd.Logger.Info("⚠️  Received shutdown signal. Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		cmd.Logger.WithError(err).Error("HTTP server shutdown error")
	}
	stopHub()

	cmd.Logger.Info("✅ Shutdown complete")
	return nil
}
