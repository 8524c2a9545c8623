package domain

import "errors"

var (
	// ErrInvalidQuery is returned before any network call for a non-positive window or page size
	ErrInvalidQuery = errors.New("invalid query")

	// ErrFetchFailed wraps transport errors and non-success responses
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnknownGroup is returned by ParseGroup
	ErrUnknownGroup = errors.New("unknown group")
)
