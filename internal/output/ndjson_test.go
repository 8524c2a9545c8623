package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/jittail/internal/domain"
)

func TestNDJSONWriter_Write(t *testing.T) {
	t.Run("writes workflow entry with annotation fields", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		entry := &Entry{
			Item: domain.RawLogItem{
				Timestamp: time.Date(2024, 1, 15, 10, 30, 45, 123000000, time.UTC),
				Stream:    "states/ecommerce_jit_workflow/2024-01-15",
				Message:   `{"type":"TaskStateEntered","details":{"name":"Prewarm"}}`,
			},
			Event: domain.StructuredEvent{
				Kind:              domain.KindWorkflow,
				Label:             "Prewarm",
				TypeTag:           "TaskStateEntered",
				CorrelationSuffix: "34567890",
				Severity:          domain.SeverityWarning,
			},
			Group: domain.GroupWorkflow,
		}

		require.NoError(t, w.Write(entry))

		var out OutputEntry
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

		assert.Equal(t, "log", out.Type)
		assert.Equal(t, SchemaVersion, out.SchemaVersion)
		assert.Equal(t, "2024-01-15T10:30:45.123Z", out.Timestamp)
		assert.Equal(t, "sfn", out.Group)
		assert.Equal(t, "workflow", out.Kind)
		assert.Equal(t, "warning", out.Severity)
		assert.Equal(t, "Prewarm", out.Label)
		assert.Equal(t, "TaskStateEntered", out.TypeTag)
		assert.Equal(t, "34567890", out.Correlation)
		assert.Equal(t, entry.Item.Message, out.Message)
	})

	t.Run("omits absent annotation fields and keeps html unescaped", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		require.NoError(t, w.Write(&Entry{
			Item:  domain.RawLogItem{Timestamp: time.Now(), Stream: "s", Message: "a < b && c > d"},
			Event: domain.StructuredEvent{Kind: domain.KindPlain, Severity: domain.SeverityNeutral},
		}))

		out := buf.String()
		assert.NotContains(t, out, `"label"`)
		assert.NotContains(t, out, `"type_tag"`)
		assert.NotContains(t, out, `"correlation"`)
		assert.NotContains(t, out, `"tail_id"`)
		assert.Contains(t, out, "a < b && c > d")
	})
}

func TestNDJSONWriter_WriteInfo(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	require.NoError(t, w.WriteInfo(&InfoOutput{Message: "Tailing logs", Group: "init", Minutes: 30, Pattern: "[WARM-COLD]", Mode: "api"}))

	var out InfoOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "info", out.Type)
	assert.Equal(t, SchemaVersion, out.SchemaVersion)
	assert.Equal(t, "Tailing logs", out.Message)
	assert.Equal(t, "init", out.Group)
	assert.Equal(t, 30, out.Minutes)
	assert.Equal(t, "[WARM-COLD]", out.Pattern)
	assert.Equal(t, "api", out.Mode)
}

func TestNDJSONWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	require.NoError(t, w.WriteError("INVALID_QUERY", "window must be positive"))

	var out domain.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "error", out.Type)
	assert.Equal(t, "INVALID_QUERY", out.Code)
	assert.Equal(t, "window must be positive", out.Message)
	assert.Empty(t, out.Hint)
}

func TestNDJSONWriter_WriteStatus(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	require.NoError(t, w.WriteStatus(&StatusOutput{
		State:               "live",
		Lines:               12,
		Cursor:              "tok",
		Live:                true,
		ConsecutiveFailures: 2,
		Offline:             true,
		LastError:           "fetch failed: timeout",
	}))

	var out StatusOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "status", out.Type)
	assert.Equal(t, 12, out.Lines)
	assert.Equal(t, "tok", out.Cursor)
	assert.True(t, out.Live)
	assert.True(t, out.Offline)
	assert.Equal(t, 2, out.ConsecutiveFailures)
}

func TestEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	require.NoError(t, e.Write(&Entry{Item: domain.RawLogItem{Message: "x"}, Event: domain.StructuredEvent{Kind: domain.KindPlain}}))
	require.NoError(t, e.Error("FETCH_FAILED", "boom"))
	require.NoError(t, e.WriteWarning("careful"))
	require.NoError(t, e.Info(&InfoOutput{Message: "hi"}))
	require.NoError(t, e.Status(&StatusOutput{State: "paused"}))
	require.NoError(t, e.Cutoff("pages", "t", 1))
	require.NoError(t, e.Metadata("1", "c", ""))
	require.NoError(t, e.WriteSummary(domain.NewTailSummary()))

	items := decodeAll(t, &buf)
	require.Len(t, items, 8)
	types := make([]string, 0, len(items))
	for _, it := range items {
		types = append(types, it["type"].(string))
	}
	assert.Equal(t, []string{"log", "error", "warning", "info", "status", "cutoff_reached", "metadata", "summary"}, types)
}
