package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vburojevic/jittail/internal/domain"
)

// TextWriter writes log entries as styled text
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// FormatLine renders an entry as a single line without a trailing newline.
// Workflow events render as "label [type] #suffix"; plain lines as
// "[stream] message".
func FormatLine(e *Entry) string {
	ts := Styles.Timestamp.Render(e.Item.Timestamp.Local().Format("15:04:05"))
	indicator := SeverityIndicator(e.Event.Severity)

	var b strings.Builder
	b.WriteString(ts)
	b.WriteString(" ")
	b.WriteString(indicator)
	b.WriteString(" ")

	if e.Event.IsWorkflow() {
		b.WriteString(Styles.Label.Render(e.Event.Label))
		if e.Event.TypeTag != "" {
			b.WriteString(" ")
			b.WriteString(Styles.TypeTag.Render("[" + e.Event.TypeTag + "]"))
		}
		if e.Event.CorrelationSuffix != "" {
			b.WriteString(" ")
			b.WriteString(Styles.Correlation.Render("#" + e.Event.CorrelationSuffix))
		}
		return b.String()
	}

	if stream := e.Item.StreamName(); stream != "" {
		b.WriteString(Styles.Stream.Render("[" + stream + "]"))
		b.WriteString(" ")
	}
	b.WriteString(SeverityStyle(e.Event.Severity).Render(e.Item.DisplayMessage()))
	return b.String()
}

// Write outputs a single log entry as styled text
func (w *TextWriter) Write(entry *Entry) error {
	_, err := io.WriteString(w.w, FormatLine(entry)+"\n")
	return err
}

// WriteSummary outputs a styled summary
func (w *TextWriter) WriteSummary(summary *domain.TailSummary) error {
	header := Styles.Header.Render("Summary")
	line := "\n" + header + "\n"
	line += Styles.Key.Render("Total: ") + Styles.Value.Render(strconv.Itoa(summary.TotalCount)) + " | "
	line += Styles.Key.Render("Workflow: ") + Styles.Value.Render(strconv.Itoa(summary.WorkflowCount)) + " | "
	if summary.ErrorCount > 0 {
		line += Styles.Danger.Render("Errors: " + strconv.Itoa(summary.ErrorCount))
	} else {
		line += Styles.Key.Render("Errors: ") + Styles.Value.Render("0")
	}
	line += "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string, hint ...string) error {
	line := Styles.Danger.Render("Error") + " " + Styles.Warning.Render("["+code+"]") + ": " + message + "\n"
	if len(hint) > 0 && hint[0] != "" {
		line += Styles.Key.Render("Hint: ") + hint[0] + "\n"
	}
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteStatus outputs a one-line status
func (w *TextWriter) WriteStatus(s *StatusOutput) error {
	line := fmt.Sprintf("%s %s lines=%d", Styles.Key.Render("[STATUS]"), StatusText(s.Live), s.Lines)
	if s.Cursor != "" {
		line += " more=yes"
	}
	if s.LastError != "" {
		line += " " + Styles.Danger.Render("error="+s.LastError)
	}
	_, err := io.WriteString(w.w, line+"\n")
	return err
}
