// Package config loads cogos configuration from YAML with built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Thresholds configures the rule table and the unlock evaluator.
type Thresholds struct {
	TopicWindowLimit    int `yaml:"topic_window_limit"`
	UnfinishedLimit     int `yaml:"unfinished_limit"`
	ErrorOccurrences    int `yaml:"error_occurrences"`
	ScatteredStreak     int `yaml:"scattered_streak"`
	HighLevelDays       int `yaml:"high_level_days"`
	UnlockMaxUnresolved int `yaml:"unlock_max_unresolved"`
}

// Config holds all configurable parameters.
type Config struct {
	DataDir              string     `yaml:"data_dir"`
	WindowDays           int        `yaml:"window_days"`
	HistoryRetentionDays int        `yaml:"history_retention_days"`
	Thresholds           Thresholds `yaml:"thresholds"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:              DefaultDataDir(),
		WindowDays:           7,
		HistoryRetentionDays: 30,
		Thresholds: Thresholds{
			TopicWindowLimit:    7,
			UnfinishedLimit:     5,
			ErrorOccurrences:    3,
			ScatteredStreak:     3,
			HighLevelDays:       3,
			UnlockMaxUnresolved: 3,
		},
	}
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cognitive-os")
	}
	return filepath.Join(home, ".cognitive-os")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Load reads configuration from a YAML file. Empty path falls back to the
// default location. Missing file returns defaults. Invalid YAML returns an
// error. Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: read: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// LogPath returns the intervention log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "interventions.jsonl")
}

// RecordsDir returns the daily records directory.
func (c *Config) RecordsDir() string {
	return filepath.Join(c.DataDir, "records")
}

// HistoryRetention returns the state history horizon as a duration.
func (c *Config) HistoryRetention() time.Duration {
	days := c.HistoryRetentionDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// DefaultConfigYAML returns a commented YAML string for cogos init.
func DefaultConfigYAML() string {
	return `# cogos configuration
# Generated by: cogos init

# Directory holding all persisted artifacts:
#   records/<date>.json   daily behavioral records (written by collaborators)
#   mistakes.json         mistake registry
#   unresolved.json       unresolved-item registry
#   state.json            current governance state
#   state_history.jsonl   30-day state history
#   interventions.jsonl   append-only intervention log
#data_dir: ~/.cognitive-os

# Trailing window of records used for metric aggregation.
window_days: 7

# How long state history entries are retained.
history_retention_days: 30

# Rule thresholds.
thresholds:
  # expansion_limit: lock new work when one topic fills this many records.
  topic_window_limit: 7
  # unfinished_limit: lock new work at this many open unresolved items.
  unfinished_limit: 5
  # error_recurrence: demand a counter-strategy at this many occurrences.
  error_occurrences: 3
  # scattered_streak: warn after this many trailing low-energy records.
  scattered_streak: 3
  # high_level_duration: step the level down after this many days at severe.
  high_level_days: 3
  # unlock is justified only below this many open unresolved items.
  unlock_max_unresolved: 3
`
}
