package tail

import "errors"

// Event is an input to the session state machine
type Event int

const (
	EventQueryChanged Event = iota
	EventTick
	EventManualRefresh
	EventLoadMore
	EventReset
	EventLiveToggled
)

func (e Event) String() string {
	switch e {
	case EventQueryChanged:
		return "query_changed"
	case EventTick:
		return "tick"
	case EventManualRefresh:
		return "manual_refresh"
	case EventLoadMore:
		return "load_more"
	case EventReset:
		return "reset"
	case EventLiveToggled:
		return "live_toggled"
	default:
		return "unknown"
	}
}

// State is the observable state of a session
type State int

const (
	// StateIdle means the session has never been started
	StateIdle State = iota
	StateFetching
	StateIdleLive
	StateIdlePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateIdleLive:
		return "live"
	case StateIdlePaused:
		return "paused"
	default:
		return "unknown"
	}
}

var (
	// ErrInFlight is returned by manual operations while a fetch is outstanding
	ErrInFlight = errors.New("fetch already in flight")

	// ErrNoCursor is returned by LoadMore when no continuation is known
	ErrNoCursor = errors.New("no continuation cursor")

	// ErrNotStarted is returned by operations that need a query
	ErrNotStarted = errors.New("session not started")

	// ErrSuperseded is returned to the caller of a fetch whose response arrived
	// after a reset or query change; the response was discarded.
	ErrSuperseded = errors.New("fetch superseded by reset")

	// errSkip marks events that are silently coalesced
	errSkip = errors.New("skip")
)
