package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lodgehall/internal/config"
	"lodgehall/internal/model"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := config.NewDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := model.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("database migration completed", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}
