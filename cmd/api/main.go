package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xelth-com/docketgo/cmd/api/command"
	"github.com/xelth-com/docketgo/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:   "docketgo",
		Short: "Job and labour docket API",
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithContext(ctx).Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.NewLogger()

	root.AddCommand(
		command.Serve{Logger: logger}.Command(ctx, cfg),
		command.Migrate{Logger: logger}.Command(ctx, cfg),
		command.Token{Logger: logger}.Command(cfg),
		command.Version{}.Command(),
	)

	if err := root.Execute(); err != nil {
		logger.WithContext(ctx).Fatalf("failed to execute root command: %v", err)
	}
}
