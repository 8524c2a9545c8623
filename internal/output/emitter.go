package output

import (
	"io"

	"github.com/vburojevic/jittail/internal/domain"
)

// Emitter wraps NDJSONWriter with helpers that reuse one encoder.
type Emitter struct {
	w *NDJSONWriter
}

// NewEmitter creates an emitter writing NDJSON to w
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: NewNDJSONWriter(w)}
}

func (e *Emitter) Write(entry *Entry) error {
	return e.w.Write(entry)
}

func (e *Emitter) WriteSummary(s *domain.TailSummary) error {
	return e.w.WriteSummary(s)
}

func (e *Emitter) Error(code, msg string, hint ...string) error {
	return e.w.WriteError(code, msg, hint...)
}

func (e *Emitter) WriteWarning(msg string) error {
	return e.w.WriteWarning(msg)
}

func (e *Emitter) Info(info *InfoOutput) error {
	return e.w.WriteInfo(info)
}

func (e *Emitter) Status(s *StatusOutput) error {
	return e.w.WriteStatus(s)
}

func (e *Emitter) Cutoff(reason, tailID string, total int) error {
	return e.w.WriteCutoff(reason, tailID, total)
}

func (e *Emitter) Metadata(version, commit, buildDate string) error {
	return e.w.WriteMetadata(version, commit, buildDate)
}
