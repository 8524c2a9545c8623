// Package tail implements the live log tail: a session that pulls paginated
// log pages, merges them into a deduplicated append-only view, and a poller
// that drives it on a fixed interval.
package tail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/vburojevic/jittail/internal/annotate"
	"github.com/vburojevic/jittail/internal/domain"
	"go.uber.org/zap"
)

// Fetcher retrieves one page of logs
type Fetcher interface {
	FetchLogs(ctx context.Context, req domain.PageRequest) (domain.Page, error)
}

// Session owns one logical tail. All operations are serialized by a mutex;
// only the network fetch runs outside the lock, and at most one fetch per
// generation is outstanding at a time.
type Session struct {
	mu      sync.Mutex
	fetcher Fetcher
	logger  *zap.Logger
	clock   clock.Clock

	query   domain.LogQuery
	started bool
	cursor  string
	index   *Index
	live    bool

	inFlight   bool
	generation uint64
	cancel     context.CancelFunc

	lastErr     error
	failures    int
	lastUpdated time.Time
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used for LastUpdated
func WithClock(c clock.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewSession creates an idle session. Nothing is fetched until Start.
func NewSession(f Fetcher, opts ...Option) *Session {
	s := &Session{
		fetcher: f,
		logger:  zap.NewNop(),
		clock:   clock.New(),
		index:   NewIndex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// command is one event entering the state machine
type command struct {
	event Event
	query domain.LogQuery
	force bool
}

// call is an issued fetch, tagged with the generation it belongs to
type call struct {
	event      Event
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	req        domain.PageRequest
}

// Start resets the session to q, turns live tailing on and fetches the first page
func (s *Session) Start(ctx context.Context, q domain.LogQuery) ([]domain.RawLogItem, error) {
	return s.dispatch(ctx, command{event: EventQueryChanged, query: q, force: true})
}

// SetQuery behaves as Start when q differs from the current query and does
// nothing when it is the same query.
func (s *Session) SetQuery(ctx context.Context, q domain.LogQuery) ([]domain.RawLogItem, error) {
	return s.dispatch(ctx, command{event: EventQueryChanged, query: q})
}

// Tick continues the tail from the current cursor. Ticks while paused or
// while a fetch is outstanding are dropped, not queued.
func (s *Session) Tick(ctx context.Context) ([]domain.RawLogItem, error) {
	return s.dispatch(ctx, command{event: EventTick})
}

// RefreshNow fetches once outside the timer without changing live
func (s *Session) RefreshNow(ctx context.Context) ([]domain.RawLogItem, error) {
	return s.dispatch(ctx, command{event: EventManualRefresh})
}

// LoadMore fetches the next page using the current cursor
func (s *Session) LoadMore(ctx context.Context) ([]domain.RawLogItem, error) {
	return s.dispatch(ctx, command{event: EventLoadMore})
}

// Reset clears the view and cursor, keeps live, and fetches from the start
func (s *Session) Reset(ctx context.Context) ([]domain.RawLogItem, error) {
	return s.dispatch(ctx, command{event: EventReset})
}

// SetLive toggles whether ticks are honored. An in-flight fetch is not cancelled.
func (s *Session) SetLive(live bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = live
	s.logger.Debug("live toggled", zap.Stringer("event", EventLiveToggled), zap.Bool("live", live))
}

// Live reports whether ticks are honored
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// CanLoadMore reports whether LoadMore is currently applicable
func (s *Session) CanLoadMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.inFlight && s.cursor != ""
}

// Query returns the current query
func (s *Session) Query() domain.LogQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// View returns a copy of the accepted lines in acceptance order
func (s *Session) View() []domain.RawLogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.View()
}

// Annotate classifies item using the group of the current query
func (s *Session) Annotate(item domain.RawLogItem) domain.StructuredEvent {
	return annotate.Annotate(s.Query().Group, item.Message)
}

func (s *Session) dispatch(ctx context.Context, cmd command) ([]domain.RawLogItem, error) {
	s.mu.Lock()
	if err := s.guardLocked(cmd); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errSkip) {
			return nil, nil
		}
		return nil, err
	}
	s.applyLocked(cmd)
	c := s.beginLocked(ctx, cmd.event)
	s.mu.Unlock()

	page, err := s.fetcher.FetchLogs(c.ctx, c.req)
	return s.complete(c, page, err)
}

// guardLocked decides whether cmd may issue a fetch
func (s *Session) guardLocked(cmd command) error {
	switch cmd.event {
	case EventQueryChanged:
		if err := cmd.query.Validate(); err != nil {
			return err
		}
		if !cmd.force && s.started && cmd.query == s.query {
			return errSkip
		}
	case EventTick:
		if !s.started || !s.live || s.inFlight {
			return errSkip
		}
	case EventManualRefresh, EventReset:
		if !s.started {
			return ErrNotStarted
		}
		if cmd.event == EventManualRefresh && s.inFlight {
			return ErrInFlight
		}
	case EventLoadMore:
		if !s.started {
			return ErrNotStarted
		}
		if s.inFlight {
			return ErrInFlight
		}
		if s.cursor == "" {
			return ErrNoCursor
		}
	default:
		return fmt.Errorf("unexpected event %s", cmd.event)
	}
	return nil
}

func (s *Session) applyLocked(cmd command) {
	switch cmd.event {
	case EventQueryChanged:
		s.query = cmd.query
		s.started = true
		s.live = true
		s.resetLocked()
	case EventReset:
		s.resetLocked()
	}
}

// resetLocked starts a new generation. The outstanding fetch, if any, is
// cancelled and its response will be discarded.
func (s *Session) resetLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.inFlight = false
	s.index.Reset()
	s.cursor = ""
	s.lastErr = nil
	s.failures = 0
}

func (s *Session) beginLocked(ctx context.Context, ev Event) call {
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.inFlight = true
	c := call{
		event:      ev,
		generation: s.generation,
		ctx:        fctx,
		cancel:     cancel,
		req:        domain.PageRequest{LogQuery: s.query, Cursor: s.cursor},
	}
	s.logger.Debug("fetch issued",
		zap.Stringer("event", ev),
		zap.Uint64("generation", c.generation),
		zap.Stringer("group", s.query.Group),
		zap.String("cursor", s.cursor),
	)
	return c
}

func (s *Session) complete(c call, page domain.Page, fetchErr error) ([]domain.RawLogItem, error) {
	defer c.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.generation != s.generation {
		s.logger.Debug("stale response discarded",
			zap.Stringer("event", c.event),
			zap.Uint64("generation", c.generation),
			zap.Uint64("current", s.generation),
		)
		return nil, ErrSuperseded
	}

	s.inFlight = false
	s.cancel = nil
	s.lastUpdated = s.clock.Now()

	if fetchErr != nil {
		err := fetchErr
		if !errors.Is(err, domain.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrFetchFailed, fetchErr)
		}
		s.lastErr = err
		s.failures++
		s.logger.Warn("fetch failed",
			zap.Stringer("event", c.event),
			zap.Int("consecutive_failures", s.failures),
			zap.Error(fetchErr),
		)
		return nil, err
	}

	fresh := s.index.Merge(page.Items)
	s.cursor = page.Cursor
	s.lastErr = nil
	s.failures = 0
	s.logger.Debug("page merged",
		zap.Stringer("event", c.event),
		zap.Int("received", len(page.Items)),
		zap.Int("accepted", len(fresh)),
		zap.Int("total", s.index.Len()),
		zap.Bool("has_cursor", page.HasCursor()),
	)
	return fresh, nil
}

// Snapshot is a consistent copy of the session for presentation
type Snapshot struct {
	Query               domain.LogQuery
	Started             bool
	View                []domain.RawLogItem
	Cursor              string
	Live                bool
	InFlight            bool
	State               State
	Generation          uint64
	LastError           error
	ConsecutiveFailures int
	LastUpdated         time.Time
}

// IsOffline returns true when the backend has been unreachable for multiple polls
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Snapshot returns a copy of the current session state. The last error is
// reported next to the accumulated view, never instead of it.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Query:               s.query,
		Started:             s.started,
		View:                s.index.View(),
		Cursor:              s.cursor,
		Live:                s.live,
		InFlight:            s.inFlight,
		State:               s.stateLocked(),
		Generation:          s.generation,
		LastError:           s.lastErr,
		ConsecutiveFailures: s.failures,
		LastUpdated:         s.lastUpdated,
	}
}

func (s *Session) stateLocked() State {
	switch {
	case !s.started:
		return StateIdle
	case s.inFlight:
		return StateFetching
	case s.live:
		return StateIdleLive
	default:
		return StateIdlePaused
	}
}
