package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tunik/tunik-api/config"
	"github.com/tunik/tunik-api/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.ConnectDatabase(cfg); err != nil {
		return err
	}

	if err := models.Migrate(config.GetDB()); err != nil {
		return err
	}
	log.Info().Msg("Database migration completed successfully")
	return nil
}
