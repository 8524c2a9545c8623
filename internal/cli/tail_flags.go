package cli

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/vburojevic/jittail/internal/config"
	"github.com/vburojevic/jittail/internal/domain"
	"github.com/vburojevic/jittail/internal/logsapi"
	"github.com/vburojevic/jittail/internal/tail"
)

// QueryFlags groups the log query flags shared by tail and ui.
type QueryFlags struct {
	Group    string `short:"g" default:"${config_group}" help:"Log group: target, init, collector, sfn (or labels like step_functions)"`
	Minutes  int    `short:"m" default:"${config_minutes}" help:"Look-back window in minutes (5, 15, 30, 60 or any positive value)"`
	Pattern  string `short:"p" default:"${config_pattern}" help:"Server-side filter pattern, e.g. '[WARM-COLD]'"`
	PageSize int    `short:"n" name:"limit" default:"${config_page_size}" help:"Maximum lines per page"`
}

// SourceFlags selects where logs come from.
type SourceFlags struct {
	API      string `help:"Dashboard API base URL (empty: mock mode)"`
	Mock     bool   `help:"Synthesize WARM/COLD lines instead of calling the API"`
	Interval string `help:"Poll interval (e.g. '2s')"`
}

// Query builds and validates the log query
func (f QueryFlags) Query() (domain.LogQuery, error) {
	group, err := domain.ParseGroup(f.Group)
	if err != nil {
		return domain.LogQuery{}, err
	}
	q := domain.LogQuery{
		Group:         group,
		WindowMinutes: f.Minutes,
		Pattern:       strings.TrimSpace(f.Pattern),
		PageSize:      f.PageSize,
	}
	if err := q.Validate(); err != nil {
		return domain.LogQuery{}, err
	}
	return q, nil
}

// applyQueryDefaults fills unset query flags from config. Kong vars normally
// carry these; this covers commands constructed directly.
func applyQueryDefaults(cfg *config.Config, f *QueryFlags) {
	if cfg == nil {
		return
	}
	if f.Group == "" {
		f.Group = cfg.Defaults.Group
	}
	if f.Minutes == 0 {
		f.Minutes = cfg.Defaults.Minutes
	}
	if f.Pattern == "" {
		f.Pattern = cfg.Defaults.Pattern
	}
	if f.PageSize == 0 {
		f.PageSize = cfg.Defaults.PageSize
	}
}

// pollInterval resolves the flag, then config, then the default
func (s SourceFlags) pollInterval(cfg *config.Config) (time.Duration, error) {
	if s.Interval != "" {
		d, err := time.ParseDuration(s.Interval)
		if err != nil {
			return 0, invalidInterval("interval", s.Interval, err)
		}
		if d <= 0 {
			return 0, invalidInterval("interval", s.Interval, fmt.Errorf("must be positive"))
		}
		return d, nil
	}
	if cfg != nil && cfg.PollInterval > 0 {
		return cfg.PollInterval, nil
	}
	return tail.DefaultPollInterval, nil
}

// newFetcher returns the log source and a short description of it
func (s SourceFlags) newFetcher(cfg *config.Config, clk clock.Clock) (tail.Fetcher, string, error) {
	base := s.API
	mock := s.Mock
	timeout := logsapi.DefaultRequestTimeout
	if cfg != nil {
		if base == "" {
			base = cfg.APIBase
		}
		mock = mock || cfg.Mock
		if cfg.RequestTimeout > 0 {
			timeout = cfg.RequestTimeout
		}
	}

	if mock || strings.TrimSpace(base) == "" {
		return logsapi.NewMockSource(clk), "mock", nil
	}

	client, err := logsapi.NewClient(base, logsapi.WithTimeout(timeout))
	if err != nil {
		return nil, "", &CLIError{Code: CodeConfigError, Message: err.Error(), Hint: "Pass --api https://<id>.execute-api.<region>.amazonaws.com/<stage>"}
	}
	mode := base
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		mode = u.Host
	}
	return client, mode, nil
}
