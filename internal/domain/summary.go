package domain

import "time"

// TailSummary provides aggregated statistics over a tail view
type TailSummary struct {
	Type          string `json:"type"`          // Always "summary"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility

	Group  string `json:"group"`
	TailID string `json:"tail_id,omitempty"`

	// Time window covered by the accepted lines
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`

	// Counts
	TotalCount    int `json:"totalCount"`
	NeutralCount  int `json:"neutralCount"`
	InfoCount     int `json:"infoCount"`
	SuccessCount  int `json:"successCount"`
	WarningCount  int `json:"warningCount"`
	ErrorCount    int `json:"errorCount"`
	WorkflowCount int `json:"workflowCount"`
	StreamCount   int `json:"streamCount"`

	HasErrors bool     `json:"hasErrors"`
	TopErrors []string `json:"topErrors,omitempty"`

	// errors per minute across the window
	ErrorRate float64 `json:"errorRate"`
}

// NewTailSummary creates a new empty summary
func NewTailSummary() *TailSummary {
	return &TailSummary{
		Type: "summary",
	}
}

// Count records one line of the given severity
func (s *TailSummary) Count(sev Severity) {
	s.TotalCount++
	switch sev {
	case SeverityInfo:
		s.InfoCount++
	case SeveritySuccess:
		s.SuccessCount++
	case SeverityWarning:
		s.WarningCount++
	case SeverityError:
		s.ErrorCount++
	default:
		s.NeutralCount++
	}
}

// ErrorOutput represents a structured error for NDJSON output
type ErrorOutput struct {
	Type          string `json:"type"`           // Always "error"
	SchemaVersion int    `json:"schemaVersion"`  // Schema version for compatibility
	Code          string `json:"code"`           // Machine-readable error code
	Message       string `json:"message"`        // Human-readable message
	Hint          string `json:"hint,omitempty"` // Suggested recovery
}

// NewErrorOutput creates a new error output
// Note: SchemaVersion should be set by the caller (output package)
func NewErrorOutput(code, message string) *ErrorOutput {
	return &ErrorOutput{
		Type:    "error",
		Code:    code,
		Message: message,
	}
}
