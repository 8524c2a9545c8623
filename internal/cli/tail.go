package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/vburojevic/jittail/internal/domain"
	"github.com/vburojevic/jittail/internal/output"
	"github.com/vburojevic/jittail/internal/tail"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TailCmd streams a log group from the dashboard backend
type TailCmd struct {
	QueryFlags  `embed:""`
	SourceFlags `embed:""`

	Once        bool   `help:"Fetch once and exit instead of polling"`
	Pages       int    `default:"1" help:"Pages to fetch with --once, following the continuation cursor"`
	MaxDuration string `help:"Stop polling after this duration (e.g. '5m')"`
	Summary     bool   `help:"Emit a summary of all lines in the view on exit"`

	clock clock.Clock `kong:"-"`
}

// Run executes the tail command
func (c *TailCmd) Run(globals *Globals) error {
	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.run(signalCtx, globals)
}

func (c *TailCmd) run(parent context.Context, globals *Globals) error {
	if globals.Format == "text" {
		maybeDisableStyles(globals.Stdout)
	}

	applyQueryDefaults(globals.Config, &c.QueryFlags)
	query, err := c.Query()
	if err != nil {
		return outputError(globals, err)
	}
	interval, err := c.pollInterval(globals.Config)
	if err != nil {
		return outputError(globals, err)
	}
	var maxDuration time.Duration
	if c.MaxDuration != "" {
		maxDuration, err = time.ParseDuration(c.MaxDuration)
		if err != nil || maxDuration <= 0 {
			if err == nil {
				err = fmt.Errorf("must be positive")
			}
			return outputError(globals, invalidInterval("max-duration", c.MaxDuration, err))
		}
	}

	clk := c.clock
	if clk == nil {
		clk = clock.New()
	}
	fetcher, mode, err := c.newFetcher(globals.Config, clk)
	if err != nil {
		return outputError(globals, err)
	}

	tailID := uuid.NewString()
	logger := globals.logger().With(zap.String("tail_id", tailID))
	session := tail.NewSession(fetcher, tail.WithLogger(logger), tail.WithClock(clk))
	out := newTailWriter(globals, session, tailID)

	if !c.Once && c.Pages > 1 {
		emitWarning(globals, out.emitter, "--pages only applies with --once; live tails follow the cursor on every tick")
	}
	if c.Mock && c.API != "" {
		emitWarning(globals, out.emitter, "--mock set, ignoring --api")
	}

	emitInfo(globals, out.emitter, &output.InfoOutput{
		Message: fmt.Sprintf("Tailing %s (last %dm) from %s", query.Group.Label(), query.WindowMinutes, mode),
		Group:   query.Group.Key(),
		Minutes: query.WindowMinutes,
		Pattern: query.Pattern,
		Mode:    mode,
		TailID:  tailID,
	})

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	items, err := session.Start(ctx, query)
	if c.Once {
		if err != nil {
			return outputError(globals, err)
		}
		if err := out.entries(items); err != nil {
			return err
		}
		for page := 1; page < c.Pages && session.CanLoadMore(); page++ {
			items, err := session.LoadMore(ctx)
			if err != nil {
				return outputError(globals, err)
			}
			if err := out.entries(items); err != nil {
				return err
			}
		}
		return c.finish(globals, out, session)
	}

	if err != nil {
		out.fetchError(err)
	} else if err := out.entries(items); err != nil {
		return err
	}

	poller := tail.NewPoller(session, out,
		tail.WithInterval(interval),
		tail.WithPollerClock(clk),
		tail.WithPollerLogger(logger),
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return poller.Run(gctx)
	})
	if maxDuration > 0 {
		group.Go(func() error {
			select {
			case <-gctx.Done():
			case <-clk.After(maxDuration):
				logger.Debug("max duration reached", zap.Duration("max_duration", maxDuration))
				out.cutoff("max_duration")
				cancel()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return outputError(globals, err)
	}
	return c.finish(globals, out, session)
}

// finish writes the closing status and, when asked, the summary
func (c *TailCmd) finish(globals *Globals, out *tailWriter, session *tail.Session) error {
	if err := out.status(); err != nil {
		return err
	}
	if !c.Summary {
		return nil
	}
	summary := output.NewAnalyzer().Summarize(session.Query().Group, session.View())
	summary.TailID = out.tailID
	return out.summary(summary)
}

// tailWriter serializes output from the poller and the command goroutine
type tailWriter struct {
	mu      sync.Mutex
	globals *Globals
	session *tail.Session
	tailID  string
	emitter *output.Emitter
	text    *output.TextWriter
	written int
	failed  bool
}

func newTailWriter(globals *Globals, session *tail.Session, tailID string) *tailWriter {
	w := &tailWriter{globals: globals, session: session, tailID: tailID}
	if globals.Format == "ndjson" {
		w.emitter = output.NewEmitter(globals.Stdout)
	} else {
		w.text = output.NewTextWriter(globals.Stdout)
	}
	return w
}

func (w *tailWriter) entries(items []domain.RawLogItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	group := w.session.Query().Group
	for _, item := range items {
		entry := &output.Entry{
			Item:   item,
			Event:  w.session.Annotate(item),
			Group:  group,
			TailID: w.tailID,
		}
		var err error
		if w.emitter != nil {
			err = w.emitter.Write(entry)
		} else {
			err = w.text.Write(entry)
		}
		if err != nil {
			return err
		}
		w.written++
	}
	return nil
}

// OnItems implements tail.Sink
func (w *tailWriter) OnItems(items []domain.RawLogItem) {
	if err := w.entries(items); err != nil {
		w.mu.Lock()
		if !w.failed {
			w.failed = true
			w.globals.Debug("write failed: %v", err)
		}
		w.mu.Unlock()
	}
}

// OnError implements tail.Sink. Fetch failures never end the tail.
func (w *tailWriter) OnError(err error) {
	w.fetchError(err)
}

func (w *tailWriter) fetchError(err error) {
	if w.globals.Quiet {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.emitter != nil {
		_ = w.emitter.Error(codeFor(err), err.Error(), hintFor(err))
		return
	}
	_ = output.NewTextWriter(w.globals.Stderr).WriteError(codeFor(err), err.Error(), hintFor(err))
}

func (w *tailWriter) cutoff(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.emitter != nil {
		_ = w.emitter.Cutoff(reason, w.tailID, w.written)
		return
	}
	if !w.globals.Quiet {
		fmt.Fprintf(w.globals.Stderr, "Stopped: %s after %d lines\n", reason, w.written)
	}
}

func (w *tailWriter) status() error {
	if w.globals.Quiet {
		return nil
	}
	snap := w.session.Snapshot()
	s := &output.StatusOutput{
		TailID:              w.tailID,
		State:               snap.State.String(),
		Lines:               len(snap.View),
		Cursor:              snap.Cursor,
		Live:                snap.Live,
		ConsecutiveFailures: snap.ConsecutiveFailures,
		Offline:             snap.IsOffline(),
	}
	if snap.LastError != nil {
		s.LastError = snap.LastError.Error()
	}
	if !snap.LastUpdated.IsZero() {
		s.LastUpdated = snap.LastUpdated.UTC().Format(time.RFC3339Nano)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.emitter != nil {
		return w.emitter.Status(s)
	}
	return output.NewTextWriter(w.globals.Stderr).WriteStatus(s)
}

func (w *tailWriter) summary(s *domain.TailSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.emitter != nil {
		return w.emitter.WriteSummary(s)
	}
	// quiet keeps stdout to log lines only
	if w.globals.Quiet {
		return output.NewTextWriter(w.globals.Stderr).WriteSummary(s)
	}
	return renderSummaryTable(w.globals.Stdout, s)
}

// renderSummaryTable prints the summary as a two-column table
func renderSummaryTable(out io.Writer, s *domain.TailSummary) error {
	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Value")
	rows := [][]string{
		{"Group", s.Group},
		{"Lines", strconv.Itoa(s.TotalCount)},
		{"Workflow events", strconv.Itoa(s.WorkflowCount)},
		{"Streams", strconv.Itoa(s.StreamCount)},
		{"Info", strconv.Itoa(s.InfoCount)},
		{"Success", strconv.Itoa(s.SuccessCount)},
		{"Warnings", strconv.Itoa(s.WarningCount)},
		{"Errors", strconv.Itoa(s.ErrorCount)},
		{"Errors/min", strconv.FormatFloat(s.ErrorRate, 'f', 2, 64)},
	}
	for i, msg := range s.TopErrors {
		rows = append(rows, []string{fmt.Sprintf("Top error %d", i+1), msg})
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// maybeDisableStyles drops ANSI styling when stdout is not a terminal
func maybeDisableStyles(w io.Writer) {
	f, ok := w.(*os.File)
	if ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return
	}
	output.DisableStyles()
}
