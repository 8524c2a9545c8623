package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vburojevic/jittail/internal/tail"
	"github.com/vburojevic/jittail/internal/tui"
)

// UICmd launches an interactive TUI tail
type UICmd struct {
	QueryFlags  `embed:""`
	SourceFlags `embed:""`
}

// Run executes the UI command
func (c *UICmd) Run(globals *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	model, err := c.model(ctx, globals)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Handle context cancellation
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return outputErrorCommon(globals, CodeTUIError, fmt.Sprintf("TUI error: %v", err))
	}
	return nil
}

// model builds the TUI model and its session without starting the program
func (c *UICmd) model(ctx context.Context, globals *Globals) (tui.Model, error) {
	applyQueryDefaults(globals.Config, &c.QueryFlags)
	query, err := c.Query()
	if err != nil {
		return tui.Model{}, outputError(globals, err)
	}
	interval, err := c.pollInterval(globals.Config)
	if err != nil {
		return tui.Model{}, outputError(globals, err)
	}

	clk := clock.New()
	fetcher, mode, err := c.newFetcher(globals.Config, clk)
	if err != nil {
		return tui.Model{}, outputError(globals, err)
	}
	globals.Debug("UI source: %s, interval %s", mode, interval)

	session := tail.NewSession(fetcher, tail.WithLogger(globals.logger()), tail.WithClock(clk))
	return tui.New(ctx, session, tui.Options{
		Query:    query,
		Interval: interval,
		Mode:     mode,
	}), nil
}
