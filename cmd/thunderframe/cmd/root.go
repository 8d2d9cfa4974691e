package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thundertrack/frameapi/config"
)

var rootCmd = &cobra.Command{
	Use:   "thunderframe",
	Short: "Share frames for ThunderTrack trading journal entries",
	Long: `Thunderframe serves the pages and preview images that let a ThunderTrack
trading journal entry be shared as a Farcaster mini app embed.

It provides:
  - An HTTP service with the diary page and SVG image endpoints
  - Offline rendering of the same documents for inspection
  - Configuration file generation and validation`,
	SilenceUsage: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
}

// loadConfig reads --config when given, otherwise starts from the defaults,
// then applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}
