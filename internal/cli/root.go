package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/vburojevic/jittail/internal/config"
	"github.com/vburojevic/jittail/internal/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLI is the root command structure for jittail
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format"`
	Quiet   bool   `short:"q" help:"Suppress non-log output (only emit log entries)"`
	Verbose bool   `short:"v" help:"Log fetch activity to stderr"`

	// Commands
	Version VersionCmd `cmd:"" help:"Show version information"`
	Tail    TailCmd    `cmd:"" default:"withargs" help:"Tail a log group from the dashboard backend"`
	UI      UICmd      `cmd:"" help:"Interactive TUI log tail"`
	Groups  GroupsCmd  `cmd:"" help:"List tailable log groups"`
	Config  ConfigCmd  `cmd:"" help:"Show or manage configuration"`
}

// KongVars exposes config values as flag defaults. CLI flags still win.
func KongVars(cfg *config.Config) kong.Vars {
	if cfg == nil {
		cfg = config.Default()
	}
	return kong.Vars{
		"config_format":    cfg.Format,
		"config_group":     cfg.Defaults.Group,
		"config_minutes":   strconv.Itoa(cfg.Defaults.Minutes),
		"config_pattern":   cfg.Defaults.Pattern,
		"config_page_size": strconv.Itoa(cfg.Defaults.PageSize),
	}
}

// Globals holds shared state for all commands
type Globals struct {
	Format     string
	Quiet      bool
	Verbose    bool
	Stdout     io.Writer
	Stderr     io.Writer
	Config     *config.Config
	ConfigFile string
	FlagsSet   map[string]bool
	Logger     *zap.Logger
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return NewGlobalsWithConfig(cli, config.Default())
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet || cfg.Quiet,
		Verbose: cli.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	if g.Format == "" {
		g.Format = cfg.Format
	}
	g.Logger = NewLogger(g.Verbose, g.Stderr)
	return g
}

// NewLogger returns a no-op logger unless verbose, then a development console
// logger writing to w at debug level.
func NewLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose || w == nil {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

// FlagProvided reports whether a flag was explicitly set on the command line
func (g *Globals) FlagProvided(name string) bool {
	if g == nil || g.FlagsSet == nil {
		return false
	}
	return g.FlagsSet[name]
}

// Debug prints a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	g.logger().Debug(fmt.Sprintf(format, args...))
}

func (g *Globals) logger() *zap.Logger {
	if g == nil || g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteMetadata(Version, Commit, BuildDate)
	}
	_, err := fmt.Fprintf(globals.Stdout, "jittail version %s (%s)\n", Version, Commit)
	return err
}

// Version information (set at build time)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = ""
)
