package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/segsession/core/config"
	"github.com/dmitrymomot/segsession/core/logger"
	"github.com/dmitrymomot/segsession/integration/database/pg"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL session schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		var app appConfig
		if err := config.Load(&app); err != nil {
			return err
		}
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return err
		}

		log := newLogger(cmd, app).With(logger.Component("migrate"))
		ctx := cmd.Context()

		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to database", logger.Error(err))
			return err
		}
		defer pool.Close()

		if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
			log.Error("failed to apply migrations", logger.Error(err))
			return err
		}

		log.Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
