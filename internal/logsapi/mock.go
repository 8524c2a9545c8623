package logsapi

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/vburojevic/jittail/internal/domain"
)

// mockLines is the number of WARM lines following the single COLD line
const mockLines = 12

// MockSource synthesizes a cold start followed by warm invocations, relative
// to the current time. It is used when no API base is configured.
type MockSource struct {
	clock clock.Clock
}

// NewMockSource creates a mock source; a nil clock uses wall time
func NewMockSource(c clock.Clock) *MockSource {
	if c == nil {
		c = clock.New()
	}
	return &MockSource{clock: c}
}

// FetchLogs returns the synthetic page. It never offers a cursor.
func (m *MockSource) FetchLogs(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return domain.Page{}, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	now := m.clock.Now().UTC().Truncate(time.Second)
	items := make([]domain.RawLogItem, 0, mockLines+1)
	items = append(items, mockItem(now, 0, false))
	for i := 1; i <= mockLines; i++ {
		items = append(items, mockItem(now, i, true))
	}
	if req.PageSize > 0 && len(items) > req.PageSize {
		items = items[len(items)-req.PageSize:]
	}
	return domain.Page{Group: "/mock/" + req.Group.Key(), Items: items}, nil
}

func mockItem(now time.Time, i int, warm bool) domain.RawLogItem {
	msg := fmt.Sprintf("[WARM-COLD] AM COLD (#0) | done in %.2f ms | warm=false", float64(430+i*9))
	if warm {
		msg = fmt.Sprintf("[WARM-COLD] AM WARM (#%d) | done in %.2f ms | warm=true", i, float64(300+i*7))
	}
	return domain.RawLogItem{
		Timestamp: now.Add(-time.Duration(20-i) * time.Second),
		Stream:    "mock/stream",
		Message:   msg,
	}
}
