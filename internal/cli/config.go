package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/jittail/internal/config"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		output := map[string]interface{}{
			"type":            "config",
			"api_base":        cfg.APIBase,
			"mock":            cfg.MockMode(),
			"format":          cfg.Format,
			"quiet":           cfg.Quiet,
			"verbose":         cfg.Verbose,
			"poll_interval":   cfg.PollInterval.String(),
			"request_timeout": cfg.RequestTimeout.String(),
			"defaults": map[string]interface{}{
				"group":     cfg.Defaults.Group,
				"minutes":   cfg.Defaults.Minutes,
				"pattern":   cfg.Defaults.Pattern,
				"page_size": cfg.Defaults.PageSize,
			},
		}
		encoder := json.NewEncoder(globals.Stdout)
		return encoder.Encode(output)
	}

	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = "(none)"
	}

	// Text output
	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintf(globals.Stdout, "  api_base:        %s\n", apiBase)
	fmt.Fprintf(globals.Stdout, "  mock:            %v\n", cfg.MockMode())
	fmt.Fprintf(globals.Stdout, "  format:          %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  quiet:           %v\n", cfg.Quiet)
	fmt.Fprintf(globals.Stdout, "  verbose:         %v\n", cfg.Verbose)
	fmt.Fprintf(globals.Stdout, "  poll_interval:   %s\n", cfg.PollInterval)
	fmt.Fprintf(globals.Stdout, "  request_timeout: %s\n", cfg.RequestTimeout)
	fmt.Fprintln(globals.Stdout, "")
	fmt.Fprintln(globals.Stdout, "Defaults:")
	fmt.Fprintf(globals.Stdout, "  group:     %s\n", cfg.Defaults.Group)
	fmt.Fprintf(globals.Stdout, "  minutes:   %d\n", cfg.Defaults.Minutes)
	if cfg.Defaults.Pattern != "" {
		fmt.Fprintf(globals.Stdout, "  pattern:   %s\n", cfg.Defaults.Pattern)
	}
	fmt.Fprintf(globals.Stdout, "  page_size: %d\n", cfg.Defaults.PageSize)

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintf(globals.Stdout, "Loaded from: %s\n", path)
	}

	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		output := map[string]interface{}{
			"type": "config_path",
			"path": path,
		}
		encoder := json.NewEncoder(globals.Stdout)
		return encoder.Encode(output)
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.jittail.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.jittail.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/jittail/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}

	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	sampleConfig := `# jittail configuration file
# Place this file at ./.jittail.yaml, ~/.jittail.yaml or ~/.config/jittail/config.yaml

# Dashboard API base URL (API Gateway stage). Leave empty for mock mode.
# api_base: https://abc123.execute-api.us-east-1.amazonaws.com/prod

# Force mock mode even when api_base is set
mock: false

# Output format: "ndjson" (default) or "text"
format: ndjson

# Suppress non-log output (info messages, warnings)
quiet: false

# Log fetch activity to stderr
verbose: false

# How often live tails poll for new lines
poll_interval: 2s

# Per-request timeout against the API
request_timeout: 10s

# Initial log query
defaults:
  # target, init, collector or sfn
  group: target

  # Look-back window in minutes
  minutes: 15

  # Server-side filter pattern
  # pattern: "[WARM-COLD]"

  # Lines per page
  page_size: 100
`

	fmt.Fprint(globals.Stdout, sampleConfig)
	return nil
}
