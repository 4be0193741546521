package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/superheroes/internal/config"
	"github.com/joestump/superheroes/internal/db"
	"github.com/joestump/superheroes/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DB.Driver == "" {
				return fmt.Errorf("HEROES_DB_DRIVER is required (sqlite3, mysql, postgres)")
			}

			log, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			log.Info("migrations complete", zap.String("driver", cfg.DB.Driver))
			return nil
		},
	}
}
