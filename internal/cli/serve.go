package cli

import (
	"fmt"

	"syntax_feed_backend/internal/app"
	"syntax_feed_backend/internal/config"
	"syntax_feed_backend/pkg/database"
	"syntax_feed_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateOnly bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.MigrateOnly = migrateOnly

		if cfg.MigrateOnly {
			return migrate(cfg)
		}

		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		return application.Run()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnly, "migrate-only", false, "run database migrations and exit")
}

func migrate(cfg *config.Config) error {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	// InitDB migrates before returning
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Info("Migration finished, exiting", zap.String("driver", cfg.Database.Driver))
	return nil
}
