package tail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/jittail/internal/domain"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu     sync.Mutex
	items  []domain.RawLogItem
	errors []error
}

func (r *recordingSink) OnItems(items []domain.RawLogItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
}

func (r *recordingSink) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func (r *recordingSink) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), len(r.errors)
}

func TestPoller_TicksContinueTail(t *testing.T) {
	f := &fakeFetcher{responses: []response{
		page("c1", item(1, "s", "A")),
		page("c2", item(1, "s", "A"), item(2, "s", "B")),
		{err: errors.New("gateway timeout")},
		page("c3", item(3, "s", "C")),
	}}
	session := NewSession(f)
	_, err := session.Start(context.Background(), targetQuery())
	require.NoError(t, err)

	mock := clock.NewMock()
	sink := &recordingSink{}
	p := NewPoller(session, sink, WithPollerClock(mock), WithInterval(time.Second))
	assert.Equal(t, time.Second, p.Interval())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		items, errs := sink.counts()
		return items >= 2 && errs >= 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, []string{"B", "C"}, messages(sink.items))
	assert.ErrorIs(t, sink.errors[0], domain.ErrFetchFailed)
	assert.Equal(t, []string{"A", "B", "C"}, messages(session.View()))

	reqs := f.Requests()
	assert.Equal(t, "c1", reqs[1].Cursor)
	assert.Equal(t, "c2", reqs[2].Cursor)
	assert.Equal(t, "c2", reqs[3].Cursor, "failed tick leaves the cursor")
}

func TestPoller_PausedSessionFetchesNothing(t *testing.T) {
	f := &fakeFetcher{responses: []response{page("c1", item(1, "s", "A"))}}
	session := NewSession(f)
	_, err := session.Start(context.Background(), targetQuery())
	require.NoError(t, err)
	session.SetLive(false)

	mock := clock.NewMock()
	p := NewPoller(session, &recordingSink{}, WithPollerClock(mock), WithInterval(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for i := 0; i < 10; i++ {
		mock.Add(time.Second)
	}
	cancel()
	require.NoError(t, <-done)

	assert.Len(t, f.Requests(), 1)
}

func TestPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(NewSession(&fakeFetcher{}), &recordingSink{}, WithInterval(0))
	assert.Equal(t, DefaultPollInterval, p.Interval())
}
