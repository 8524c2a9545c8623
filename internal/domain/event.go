package domain

// Kind distinguishes plain lines from structured workflow events
type Kind string

const (
	KindPlain    Kind = "plain"
	KindWorkflow Kind = "workflow"
)

// Severity is a display-neutral importance classification
type Severity string

const (
	SeverityNeutral Severity = "neutral"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// StructuredEvent is the annotated, derived view of one log line.
// Empty string fields mean the value is absent.
type StructuredEvent struct {
	Kind              Kind     `json:"kind"`
	Label             string   `json:"label,omitempty"`
	TypeTag           string   `json:"type_tag,omitempty"`
	CorrelationSuffix string   `json:"correlation,omitempty"`
	Severity          Severity `json:"severity"`
}

// IsWorkflow reports whether the event was parsed from a structured payload
func (e StructuredEvent) IsWorkflow() bool {
	return e.Kind == KindWorkflow
}
