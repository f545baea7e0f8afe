package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tunik/tunik-api/config"
)

var rootCmd = &cobra.Command{
	Use:   "tunik-api",
	Short: "Repair shop API",
	Long: `REST backend for a vehicle repair shop: supplier orders with stock
reconciliation, quotes and appointments with their service lines.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			log.Error().Err(err).Msg("Failed to display help")
		}
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads configuration and configures the global logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg)
	return cfg, nil
}
