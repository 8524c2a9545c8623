package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/vburojevic/jittail/internal/domain"
)

// SchemaVersion is stamped on every NDJSON record. Bump it on breaking changes.
const SchemaVersion = 1

// Entry is one accepted log line together with its annotation
type Entry struct {
	Item   domain.RawLogItem
	Event  domain.StructuredEvent
	Group  domain.Group
	TailID string
}

// NDJSONWriter writes log entries as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep log messages unescaped
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// OutputEntry is the NDJSON log record
type OutputEntry struct {
	Type          string `json:"type"` // Always "log"
	SchemaVersion int    `json:"schemaVersion"`
	Timestamp     string `json:"timestamp"`
	Group         string `json:"group"`
	Stream        string `json:"stream"`
	Message       string `json:"message"`
	Kind          string `json:"kind"`
	Severity      string `json:"severity"`
	Label         string `json:"label,omitempty"`
	TypeTag       string `json:"type_tag,omitempty"`
	Correlation   string `json:"correlation,omitempty"`
	TailID        string `json:"tail_id,omitempty"`
}

// InfoOutput represents an informational message
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	Group         string `json:"group,omitempty"`
	Minutes       int    `json:"minutes,omitempty"`
	Pattern       string `json:"pattern,omitempty"`
	Mode          string `json:"mode,omitempty"`
	TailID        string `json:"tail_id,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// StatusOutput reports the tail state after a fetch cycle
type StatusOutput struct {
	Type                string `json:"type"` // Always "status"
	SchemaVersion       int    `json:"schemaVersion"`
	TailID              string `json:"tail_id,omitempty"`
	State               string `json:"state"`
	Lines               int    `json:"lines"`
	Cursor              string `json:"cursor,omitempty"`
	Live                bool   `json:"live"`
	ConsecutiveFailures int    `json:"consecutive_failures,omitempty"`
	Offline             bool   `json:"offline,omitempty"`
	LastError           string `json:"last_error,omitempty"`
	LastUpdated         string `json:"last_updated,omitempty"`
}

// MetadataOutput describes runtime/tool metadata
type MetadataOutput struct {
	Type          string `json:"type"` // Always "metadata"
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	BuildDate     string `json:"build_date,omitempty"`
}

// CutoffOutput describes an intentional stream cutoff
type CutoffOutput struct {
	Type          string `json:"type"` // Always "cutoff_reached"
	SchemaVersion int    `json:"schemaVersion"`
	Reason        string `json:"reason"`
	TailID        string `json:"tail_id,omitempty"`
	TotalLogs     int    `json:"total_logs,omitempty"`
}

// NewOutputEntry converts an entry to its NDJSON record
func NewOutputEntry(e *Entry) OutputEntry {
	return OutputEntry{
		Type:          "log",
		SchemaVersion: SchemaVersion,
		Timestamp:     e.Item.Timestamp.Format(time.RFC3339Nano),
		Group:         e.Group.Key(),
		Stream:        e.Item.Stream,
		Message:       e.Item.Message,
		Kind:          string(e.Event.Kind),
		Severity:      string(e.Event.Severity),
		Label:         e.Event.Label,
		TypeTag:       e.Event.TypeTag,
		Correlation:   e.Event.CorrelationSuffix,
		TailID:        e.TailID,
	}
}

// Write outputs a single log entry as NDJSON
func (w *NDJSONWriter) Write(entry *Entry) error {
	return w.encoder.Encode(NewOutputEntry(entry))
}

// WriteSummary outputs a summary record
func (w *NDJSONWriter) WriteSummary(summary *domain.TailSummary) error {
	summary.SchemaVersion = SchemaVersion
	return w.encoder.Encode(summary)
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	err := domain.NewErrorOutput(code, message)
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	err.SchemaVersion = SchemaVersion
	return w.encoder.Encode(err)
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}

// WriteInfo outputs an informational message
func (w *NDJSONWriter) WriteInfo(info *InfoOutput) error {
	info.Type = "info"
	info.SchemaVersion = SchemaVersion
	return w.encoder.Encode(info)
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteStatus outputs a status record
func (w *NDJSONWriter) WriteStatus(s *StatusOutput) error {
	s.Type = "status"
	s.SchemaVersion = SchemaVersion
	return w.encoder.Encode(s)
}

// WriteMetadata outputs runtime metadata
func (w *NDJSONWriter) WriteMetadata(version, commit, buildDate string) error {
	return w.encoder.Encode(&MetadataOutput{
		Type:          "metadata",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
		BuildDate:     buildDate,
	})
}

// WriteCutoff outputs a cutoff marker
func (w *NDJSONWriter) WriteCutoff(reason, tailID string, total int) error {
	return w.encoder.Encode(&CutoffOutput{
		Type:          "cutoff_reached",
		SchemaVersion: SchemaVersion,
		Reason:        reason,
		TailID:        tailID,
		TotalLogs:     total,
	})
}
