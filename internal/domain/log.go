package domain

import (
	"strings"
	"time"
)

// RawLogItem is a single log line as returned by the log query endpoint.
// Items are never mutated after they are decoded.
type RawLogItem struct {
	Timestamp time.Time `json:"ts"`
	Stream    string    `json:"stream"`
	Message   string    `json:"message"`
}

// Key identifies a log line across pages. The upstream store offers no stronger
// identity, so two lines with equal timestamp, stream and message are the same line.
type Key struct {
	UnixNano int64
	Stream   string
	Message  string
}

// Key derives the identity key of the item
func (i RawLogItem) Key() Key {
	return Key{
		UnixNano: i.Timestamp.UnixNano(),
		Stream:   i.Stream,
		Message:  i.Message,
	}
}

// StreamName returns the last path segment of the stream identifier.
// Lambda streams look like "2024/05/01/[$LATEST]abcdef", only the tail is useful.
func (i RawLogItem) StreamName() string {
	if idx := strings.LastIndex(i.Stream, "/"); idx >= 0 {
		return i.Stream[idx+1:]
	}
	return i.Stream
}

// DisplayMessage returns the message with trailing whitespace removed
func (i RawLogItem) DisplayMessage() string {
	return strings.TrimRight(i.Message, " \t\r\n")
}

// Page is one response of the log query endpoint.
// An empty Cursor means no continuation was offered for this call; it does not
// mean the window is exhausted for future polls.
type Page struct {
	Group  string       `json:"group,omitempty"`
	Items  []RawLogItem `json:"items"`
	Cursor string       `json:"next,omitempty"`
}

// HasCursor reports whether the page carries a continuation token
func (p Page) HasCursor() bool {
	return p.Cursor != ""
}
