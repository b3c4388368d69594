package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyconnfig/cognitive-os/internal/config"
	"github.com/skyconnfig/cognitive-os/internal/governor"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cogos",
	Short: "Governance loop over daily work records",
	Long:  "Aggregates daily work records into rolling metrics, evaluates a fixed\nrule table, and applies graduated interventions: expansion locks,\ncounter-strategies, scattered-focus warnings, level degradation.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.cognitive-os/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newGovernor() (*governor.Governor, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	gov, err := governor.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open data directory: %w", err)
	}
	return gov, cfg, nil
}
