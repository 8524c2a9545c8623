package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vburojevic/jittail/internal/domain"
)

func decodeAll(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	dec := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	var out []map[string]interface{}
	for {
		var m map[string]interface{}
		err := dec.Decode(&m)
		if err == nil {
			out = append(out, m)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	return out
}

func getByType(t *testing.T, items []map[string]interface{}, typ string) map[string]interface{} {
	t.Helper()
	for _, m := range items {
		if m["type"] == typ {
			return m
		}
	}
	require.FailNowf(t, "missing NDJSON type", "type=%s", typ)
	return nil
}

func TestNDJSONWriterContract_AllTypesHaveSchemaVersion(t *testing.T) {
	now := time.Date(2025, 12, 11, 10, 0, 0, 0, time.UTC)

	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.Write(&Entry{
		Item:   domain.RawLogItem{Timestamp: now, Stream: "2025/12/11/[$LATEST]abc", Message: "START RequestId: 1"},
		Event:  domain.StructuredEvent{Kind: domain.KindPlain, Severity: domain.SeveritySuccess},
		Group:  domain.GroupTarget,
		TailID: "tail-1",
	}))

	summary := domain.NewTailSummary()
	summary.TotalCount = 1
	require.NoError(t, w.WriteSummary(summary))

	require.NoError(t, w.WriteError("FETCH_FAILED", "something went wrong", "check --api"))
	require.NoError(t, w.WriteInfo(&InfoOutput{Message: "tailing", Group: "target", Minutes: 15, Mode: "mock"}))
	require.NoError(t, w.WriteWarning("warn"))
	require.NoError(t, w.WriteStatus(&StatusOutput{TailID: "tail-1", State: "live", Lines: 3, Live: true}))
	require.NoError(t, w.WriteMetadata("0.0.0", "deadbeef", "2025-12-11"))
	require.NoError(t, w.WriteCutoff("max_duration", "tail-1", 42))

	items := decodeAll(t, buf)
	require.Len(t, items, 8)

	for _, it := range items {
		require.Contains(t, it, "type")
		require.Contains(t, it, "schemaVersion")
		require.EqualValues(t, SchemaVersion, it["schemaVersion"])
	}

	log := getByType(t, items, "log")
	require.Equal(t, "target", log["group"])
	require.Equal(t, "success", log["severity"])
	require.Equal(t, "plain", log["kind"])
	require.Equal(t, "tail-1", log["tail_id"])

	errOut := getByType(t, items, "error")
	require.Equal(t, "check --api", errOut["hint"])

	status := getByType(t, items, "status")
	require.EqualValues(t, 3, status["lines"])

	cutoff := getByType(t, items, "cutoff_reached")
	require.EqualValues(t, 42, cutoff["total_logs"])
}
