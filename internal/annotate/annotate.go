// Package annotate classifies raw log messages for display.
//
// Annotation is a pure function of the group and the message. It holds no
// state, caches nothing and never fails: a workflow group tailing malformed or
// legacy plain lines falls back to the plain-line rules.
package annotate

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/vburojevic/jittail/internal/domain"
)

// fallbackLabel is used when a workflow payload names no step
const fallbackLabel = "Step"

// correlationLen is the number of trailing characters kept from the execution name
const correlationLen = 8

// lineRule is one row of the plain-line decision table
type lineRule struct {
	match    func(msg string) bool
	severity domain.Severity
}

// lineRules is evaluated in order; the first matching rule wins.
var lineRules = []lineRule{
	{containsAny("ERROR", "TaskFailed"), domain.SeverityError},
	{hasPrefix("START"), domain.SeveritySuccess},
	{hasPrefix("END"), domain.SeverityInfo},
	{hasPrefix("REPORT"), domain.SeverityInfo},
	{containsAny("Execution", "TaskState"), domain.SeverityInfo},
}

// workflowSeverity maps workflow engine event types to severities.
// Start and entry events are "in progress" and use the warning tier.
var workflowSeverity = map[string]domain.Severity{
	"ExecutionStarted":   domain.SeverityWarning,
	"TaskStarted":        domain.SeverityWarning,
	"TaskStateEntered":   domain.SeverityWarning,
	"ChoiceStateEntered": domain.SeverityWarning,

	"TaskSucceeded":      domain.SeveritySuccess,
	"TaskStateExited":    domain.SeveritySuccess,
	"ChoiceStateExited":  domain.SeveritySuccess,
	"ExecutionSucceeded": domain.SeveritySuccess,

	"ExecutionFailed": domain.SeverityError,
	"TaskFailed":      domain.SeverityError,
}

// labelPaths are tried in order for the step label
var labelPaths = []string{"details.name", "details.resource", "details.resourceType"}

// Annotate classifies one message of the given group
func Annotate(group domain.Group, message string) domain.StructuredEvent {
	if group.IsWorkflow() {
		if ev, ok := annotateWorkflow(message); ok {
			return ev
		}
	}
	return domain.StructuredEvent{
		Kind:     domain.KindPlain,
		Severity: LineSeverity(message),
	}
}

// LineSeverity applies the plain-line decision table to msg
func LineSeverity(msg string) domain.Severity {
	for _, r := range lineRules {
		if r.match(msg) {
			return r.severity
		}
	}
	return domain.SeverityNeutral
}

func annotateWorkflow(message string) (domain.StructuredEvent, bool) {
	if !gjson.Valid(message) {
		return domain.StructuredEvent{}, false
	}
	payload := gjson.Parse(message)
	if !payload.IsObject() {
		return domain.StructuredEvent{}, false
	}

	ev := domain.StructuredEvent{
		Kind:     domain.KindWorkflow,
		Label:    fallbackLabel,
		Severity: domain.SeverityNeutral,
	}
	for _, path := range labelPaths {
		if v := payload.Get(path); v.Exists() && v.String() != "" {
			ev.Label = v.String()
			break
		}
	}
	if t := payload.Get("type"); t.Exists() {
		ev.TypeTag = t.String()
		if sev, ok := workflowSeverity[ev.TypeTag]; ok {
			ev.Severity = sev
		}
	}
	if arn := payload.Get("execution_arn"); arn.Exists() && arn.String() != "" {
		ev.CorrelationSuffix = correlationSuffix(arn.String())
	}
	return ev, true
}

// correlationSuffix returns the tail of the final colon-delimited ARN segment
func correlationSuffix(arn string) string {
	segment := arn
	if idx := strings.LastIndex(arn, ":"); idx >= 0 {
		segment = arn[idx+1:]
	}
	runes := []rune(segment)
	if len(runes) <= correlationLen {
		return segment
	}
	return string(runes[len(runes)-correlationLen:])
}

func containsAny(needles ...string) func(string) bool {
	return func(msg string) bool {
		for _, n := range needles {
			if strings.Contains(msg, n) {
				return true
			}
		}
		return false
	}
}

func hasPrefix(prefix string) func(string) bool {
	return func(msg string) bool {
		return strings.HasPrefix(msg, prefix)
	}
}
