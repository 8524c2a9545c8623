package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Backend API base, e.g. https://abc.execute-api.us-east-1.amazonaws.com/prod.
	// Empty means mock mode.
	APIBase string `mapstructure:"api_base"`
	Mock    bool   `mapstructure:"mock"`

	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// Default query values
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig holds the initial log query
type DefaultsConfig struct {
	Group    string `mapstructure:"group"`
	Minutes  int    `mapstructure:"minutes"`
	Pattern  string `mapstructure:"pattern"`
	PageSize int    `mapstructure:"page_size"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:         "ndjson",
		PollInterval:   2 * time.Second,
		RequestTimeout: 10 * time.Second,
		Defaults: DefaultsConfig{
			Group:    "target",
			Minutes:  15,
			Pattern:  "",
			PageSize: 100,
		},
	}
}

// MockMode reports whether logs are synthesized instead of fetched
func (c *Config) MockMode() bool {
	return c.Mock || strings.TrimSpace(c.APIBase) == ""
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.jittail.yaml or ./.jittail.yml
// 2. ~/.jittail.yaml or ~/.jittail.yml
// 3. $XDG_CONFIG_HOME/jittail/config.yaml (or ~/.config/jittail/config.yaml)
// 4. /etc/jittail/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".jittail.yaml", ".jittail.yml", "jittail.yaml", "jittail.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "jittail"))
	}
	searchPaths = append(searchPaths, "/etc/jittail")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		// Also check for config.yaml in subdirs
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("JITTAIL_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("JITTAIL_MOCK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("JITTAIL_MOCK: %w", err)
		}
		cfg.Mock = b
	}
	if v := os.Getenv("JITTAIL_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("JITTAIL_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("JITTAIL_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("JITTAIL_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JITTAIL_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := os.Getenv("JITTAIL_GROUP"); v != "" {
		cfg.Defaults.Group = v
	}
	return nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
