package tail

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/vburojevic/jittail/internal/domain"
	"go.uber.org/zap"
)

// DefaultPollInterval matches the dashboard's live tail cadence
const DefaultPollInterval = 2 * time.Second

// Sink receives the results of timer-driven ticks
type Sink interface {
	OnItems(items []domain.RawLogItem)
	OnError(err error)
}

// Poller ticks a session at a fixed interval. There is no retry budget and
// no backoff; the interval is the retry cadence.
type Poller struct {
	session  *Session
	sink     Sink
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger
}

// PollerOption configures a Poller
type PollerOption func(*Poller)

// WithInterval sets the tick interval; non-positive values keep the default
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithPollerClock sets the clock driving the ticker
func WithPollerClock(c clock.Clock) PollerOption {
	return func(p *Poller) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithPollerLogger sets the poller logger
func WithPollerLogger(l *zap.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPoller creates a poller for session
func NewPoller(session *Session, sink Sink, opts ...PollerOption) *Poller {
	p := &Poller{
		session:  session,
		sink:     sink,
		clock:    clock.New(),
		interval: DefaultPollInterval,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the tick interval
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run ticks the session until ctx is cancelled. It blocks.
func (p *Poller) Run(ctx context.Context) error {
	ticker := p.clock.Ticker(p.interval)
	defer ticker.Stop()

	p.logger.Debug("poller started", zap.Duration("interval", p.interval))
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("poller stopped")
			return nil
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	items, err := p.session.Tick(ctx)
	if err != nil {
		if errors.Is(err, ErrSuperseded) || ctx.Err() != nil {
			return
		}
		p.sink.OnError(err)
		return
	}
	if len(items) > 0 {
		p.sink.OnItems(items)
	}
}
