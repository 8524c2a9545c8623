package output

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vburojevic/jittail/internal/annotate"
	"github.com/vburojevic/jittail/internal/domain"
)

var (
	hexPattern    = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	uuidPattern   = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// Analyzer summarizes a tail view
type Analyzer struct {
	topN int
}

// NewAnalyzer creates a new log analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{topN: 5}
}

// Summarize builds a summary of items annotated for group
func (a *Analyzer) Summarize(group domain.Group, items []domain.RawLogItem) *domain.TailSummary {
	summary := domain.NewTailSummary()
	summary.Group = group.Key()

	if len(items) == 0 {
		return summary
	}

	streams := make(map[string]struct{})
	errorMessages := make(map[string]int)

	for _, item := range items {
		ev := annotate.Annotate(group, item.Message)
		summary.Count(ev.Severity)
		if ev.IsWorkflow() {
			summary.WorkflowCount++
		}
		if ev.Severity == domain.SeverityError {
			errorMessages[a.normalizeMessage(item.DisplayMessage())]++
		}
		streams[item.Stream] = struct{}{}

		if item.Timestamp.IsZero() {
			continue
		}
		if summary.WindowStart.IsZero() || item.Timestamp.Before(summary.WindowStart) {
			summary.WindowStart = item.Timestamp
		}
		if item.Timestamp.After(summary.WindowEnd) {
			summary.WindowEnd = item.Timestamp
		}
	}

	summary.StreamCount = len(streams)
	summary.HasErrors = summary.ErrorCount > 0

	if d := summary.WindowEnd.Sub(summary.WindowStart); d > 0 {
		summary.ErrorRate = float64(summary.ErrorCount) / d.Minutes()
	}

	summary.TopErrors = a.getTopMessages(errorMessages, a.topN)
	return summary
}

// normalizeMessage removes variable parts to group similar messages
func (a *Analyzer) normalizeMessage(msg string) string {
	msg = hexPattern.ReplaceAllString(msg, "<addr>")
	msg = uuidPattern.ReplaceAllString(msg, "<uuid>")
	msg = numberPattern.ReplaceAllString(msg, "<n>")

	if len(msg) > 100 {
		msg = msg[:100] + "..."
	}

	return strings.TrimSpace(msg)
}

// getTopMessages returns the top N messages by frequency
func (a *Analyzer) getTopMessages(counts map[string]int, limit int) []string {
	type kv struct {
		msg   string
		count int
	}

	pairs := make([]kv, 0, len(counts))
	for msg, count := range counts {
		pairs = append(pairs, kv{msg, count})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].msg < pairs[j].msg
	})

	if len(pairs) > limit {
		pairs = pairs[:limit]
	}

	result := make([]string, len(pairs))
	for i, p := range pairs {
		result[i] = p.msg
	}

	return result
}
