package cmd

import (
	"fmt"
	"os"

	"github.com/matthieukhl/naturemagic/internal/config"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "naturemagic",
	Short: "NATURE MAGIC storefront - catalog, cart, checkout and CMS",
	Long: `NATURE MAGIC runs the pet food storefront backend: the product catalog,
session carts with promotional pricing, the checkout flow and the bilingual
content management store.

Run it as an HTTP server, or use the CLI commands to set up storage,
seed and back up content, and price carts offline.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: config.yaml in ./deploy, ., $HOME/.naturemagic or /etc/naturemagic)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadConfigFile(configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
