package domain

import (
	"fmt"
	"strings"
)

// Group is a logical source partition of log lines
type Group int

const (
	GroupTarget Group = iota
	GroupInit
	GroupCollector
	GroupWorkflow
)

// Groups lists every tailable group in display order
var Groups = []Group{GroupTarget, GroupInit, GroupCollector, GroupWorkflow}

// Key returns the value sent as the "group" query parameter
func (g Group) Key() string {
	switch g {
	case GroupTarget:
		return "target"
	case GroupInit:
		return "init"
	case GroupCollector:
		return "collector"
	case GroupWorkflow:
		return "sfn"
	default:
		return "target"
	}
}

// Label returns the human-readable group name
func (g Group) Label() string {
	switch g {
	case GroupTarget:
		return "target_function"
	case GroupInit:
		return "init_manager"
	case GroupCollector:
		return "data_collector"
	case GroupWorkflow:
		return "step_functions"
	default:
		return "unknown"
	}
}

// String implements fmt.Stringer
func (g Group) String() string {
	switch g {
	case GroupTarget:
		return "target"
	case GroupInit:
		return "init"
	case GroupCollector:
		return "collector"
	case GroupWorkflow:
		return "workflow"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}

// IsWorkflow reports whether lines of this group carry structured workflow payloads
func (g Group) IsWorkflow() bool {
	return g == GroupWorkflow
}

// Next returns the following group, wrapping around
func (g Group) Next() Group {
	return Groups[(int(g)+1)%len(Groups)]
}

// ParseGroup converts a wire key, label or group name to a Group
func ParseGroup(s string) (Group, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, g := range Groups {
		if v == g.Key() || v == g.Label() || v == g.String() {
			return g, nil
		}
	}
	return GroupTarget, fmt.Errorf("%w: %q", ErrUnknownGroup, s)
}

// LogQuery describes what to tail. It is a comparable value: two queries are
// the same query exactly when == holds.
type LogQuery struct {
	Group         Group
	WindowMinutes int
	Pattern       string
	PageSize      int
}

// Validate rejects queries the backend would never answer meaningfully
func (q LogQuery) Validate() error {
	if q.WindowMinutes <= 0 {
		return fmt.Errorf("%w: window must be positive, got %d minutes", ErrInvalidQuery, q.WindowMinutes)
	}
	if q.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidQuery, q.PageSize)
	}
	return nil
}

// WindowPresets are the trailing windows offered by interactive surfaces
var WindowPresets = []int{5, 15, 30, 60}

// NextWindow returns the preset after minutes, or the first preset if minutes is not one
func NextWindow(minutes int) int {
	for i, m := range WindowPresets {
		if m == minutes {
			return WindowPresets[(i+1)%len(WindowPresets)]
		}
	}
	return WindowPresets[0]
}
