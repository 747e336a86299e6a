package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Print the configuration after merging defaults, the config file and
the environment. Credentials are masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Source != "" {
			printStatus("✓", "Config file: "+cfg.Source, colorOK)
		} else {
			printStatus("⚠", "No config file, using defaults and environment", colorWarn)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		if err := enc.Encode(cfg.Masked()); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return nil
	},
}
