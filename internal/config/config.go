// Package config loads daiacheck configuration from an optional YAML file,
// merging it over built-in defaults. CLI flags override both.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".daiacheck.yaml"

// HistoryConfig controls the optional run-history database.
type HistoryConfig struct {
	// Enabled turns run recording on
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`

	// KeepRuns is the number of recent runs to retain when pruning
	KeepRuns int `yaml:"keep_runs"`
}

// Config represents daiacheck configuration options
type Config struct {
	// BaseURL is the DAIA endpoint queried for availability
	BaseURL string `yaml:"base_url"`

	// RegistryURL is the JSON-LD endpoint listing the known databases
	RegistryURL string `yaml:"registry_url"`

	// UserAgent identifies the tool in outgoing requests
	UserAgent string `yaml:"user_agent"`

	// Delay is the pause between consecutive batch requests
	Delay time.Duration `yaml:"delay"`

	// Timeout is the per-request HTTP timeout
	Timeout time.Duration `yaml:"timeout"`

	// FailCode is the exit code when any assertion fails (0 disables)
	FailCode int `yaml:"fail_code"`

	// TAP emits every assertion instead of only failures
	TAP bool `yaml:"tap"`

	// History contains run-history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://daia.gbv.de/",
		RegistryURL: "http://uri.gbv.de/database/opac",
		UserAgent:   "daiacheck",
		Delay:       200 * time.Millisecond,
		Timeout:     30 * time.Second,
		FailCode:    2,
		TAP:         false,
		History: HistoryConfig{
			Enabled:  false,
			DBPath:   ".daiacheck/history.db",
			KeepRuns: 100,
		},
	}
}

// Load loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Durations are written as strings ("200ms"), so a temporary struct
	// handles parsing before the merge.
	type yamlConfig struct {
		BaseURL     string        `yaml:"base_url"`
		RegistryURL string        `yaml:"registry_url"`
		UserAgent   string        `yaml:"user_agent"`
		Delay       string        `yaml:"delay"`
		Timeout     string        `yaml:"timeout"`
		FailCode    *int          `yaml:"fail_code"`
		TAP         bool          `yaml:"tap"`
		History     HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if yamlCfg.BaseURL != "" {
		cfg.BaseURL = yamlCfg.BaseURL
	}
	if yamlCfg.RegistryURL != "" {
		cfg.RegistryURL = yamlCfg.RegistryURL
	}
	if yamlCfg.UserAgent != "" {
		cfg.UserAgent = yamlCfg.UserAgent
	}
	if yamlCfg.Delay != "" {
		delay, err := time.ParseDuration(yamlCfg.Delay)
		if err != nil {
			return nil, fmt.Errorf("invalid delay format %q: %w", yamlCfg.Delay, err)
		}
		cfg.Delay = delay
	}
	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	// fail_code: 0 is a meaningful value, so presence is detected via pointer
	if yamlCfg.FailCode != nil {
		cfg.FailCode = *yamlCfg.FailCode
	}
	if yamlCfg.TAP {
		cfg.TAP = yamlCfg.TAP
	}

	// Merge the history section only where keys were actually present
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			history := yamlCfg.History
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = history.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = history.DBPath
			}
			if _, exists := historyMap["keep_runs"]; exists {
				cfg.History.KeepRuns = history.KeepRuns
			}
		}
	}

	return cfg, nil
}
