package main

import (
	"context"

	"github.com/deppfellow/handyman-api/internal/config"
	"github.com/deppfellow/handyman-api/internal/database"
	"github.com/deppfellow/handyman-api/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log := logger.NewLogger(cfg.Observability)

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			if err := database.Migrate(ctx, &log, cfg); err != nil {
				log.Error().Err(err).Msg("failed to migrate database")
				return err
			}
			return nil
		},
	}
}
