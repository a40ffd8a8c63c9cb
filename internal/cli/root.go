// Package cli defines the activityd command tree.
package cli

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/vaultline/vaultline/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "activityd",
	Short: "Vaultline activity and insights service",
	Long: `activityd serves the Vaultline activity feed and insights dashboard.

It owns the append-only activity event log, the cursor-paginated feed API,
and the windowed rollup metrics behind the insights dashboard.`,
	Version: "0.1.0",
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}
