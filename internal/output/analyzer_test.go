package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/jittail/internal/domain"
)

func TestAnalyzer_Summarize(t *testing.T) {
	a := NewAnalyzer()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty view", func(t *testing.T) {
		s := a.Summarize(domain.GroupTarget, nil)
		require.NotNil(t, s)
		assert.Equal(t, "summary", s.Type)
		assert.Equal(t, "target", s.Group)
		assert.Zero(t, s.TotalCount)
		assert.False(t, s.HasErrors)
	})

	t.Run("plain lines", func(t *testing.T) {
		items := []domain.RawLogItem{
			{Timestamp: base, Stream: "a", Message: "START RequestId: 1"},
			{Timestamp: base.Add(30 * time.Second), Stream: "a", Message: "ERROR timeout after 3001 ms"},
			{Timestamp: base.Add(60 * time.Second), Stream: "b", Message: "ERROR timeout after 2999 ms"},
			{Timestamp: base.Add(90 * time.Second), Stream: "b", Message: "REPORT RequestId: 1"},
			{Timestamp: base.Add(120 * time.Second), Stream: "b", Message: "hello"},
		}
		s := a.Summarize(domain.GroupTarget, items)

		assert.Equal(t, 5, s.TotalCount)
		assert.Equal(t, 1, s.SuccessCount)
		assert.Equal(t, 2, s.ErrorCount)
		assert.Equal(t, 1, s.InfoCount)
		assert.Equal(t, 1, s.NeutralCount)
		assert.Equal(t, 2, s.StreamCount)
		assert.True(t, s.HasErrors)
		assert.Equal(t, base, s.WindowStart)
		assert.Equal(t, base.Add(2*time.Minute), s.WindowEnd)
		assert.InDelta(t, 1.0, s.ErrorRate, 0.0001)
		assert.Equal(t, []string{"ERROR timeout after <n> ms"}, s.TopErrors)
	})

	t.Run("workflow events", func(t *testing.T) {
		items := []domain.RawLogItem{
			{Timestamp: base, Stream: "x", Message: `{"type":"TaskStateEntered","details":{"name":"A"}}`},
			{Timestamp: base, Stream: "x", Message: `{"type":"ExecutionFailed"}`},
			{Timestamp: base, Stream: "x", Message: "not json"},
		}
		s := a.Summarize(domain.GroupWorkflow, items)
		assert.Equal(t, 2, s.WorkflowCount)
		assert.Equal(t, 1, s.WarningCount)
		assert.Equal(t, 1, s.ErrorCount)
		assert.Equal(t, 1, s.NeutralCount)
		assert.Zero(t, s.ErrorRate, "single-instant window has no rate")
	})
}

func TestAnalyzer_NormalizeMessage(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, "ptr <addr> id <uuid> n=<n>", a.normalizeMessage("ptr 0xdeadbeef id 123e4567-e89b-12d3-a456-426614174000 n=42"))

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, a.normalizeMessage(string(long)), 103)
}
