package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/jittail/internal/domain"
	"github.com/vburojevic/jittail/internal/output"
	"github.com/vburojevic/jittail/internal/tail"
)

// Error codes emitted in NDJSON error records
const (
	CodeInvalidQuery    = "INVALID_QUERY"
	CodeUnknownGroup    = "UNKNOWN_GROUP"
	CodeFetchFailed     = "FETCH_FAILED"
	CodeInvalidInterval = "INVALID_INTERVAL"
	CodeConfigError     = "CONFIG_ERROR"
	CodeTUIError        = "TUI_ERROR"
)

// CLIError is a command failure that has already been reported to the user
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so consumers always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	h := ""
	if len(hint) > 0 {
		h = hint[0]
	}
	if globals != nil && globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, h)
	} else if globals != nil {
		_ = output.NewTextWriter(globals.Stderr).WriteError(code, message, h)
	}
	return &CLIError{Code: code, Message: message, Hint: h}
}

// outputError emits err with the code and hint derived from it
func outputError(globals *Globals, err error) error {
	return outputErrorCommon(globals, codeFor(err), err.Error(), hintFor(err))
}

// codeFor maps core errors to CLI error codes
func codeFor(err error) string {
	var cliErr *CLIError
	switch {
	case errors.As(err, &cliErr):
		return cliErr.Code
	case errors.Is(err, domain.ErrUnknownGroup):
		return CodeUnknownGroup
	case errors.Is(err, domain.ErrInvalidQuery):
		return CodeInvalidQuery
	case errors.Is(err, domain.ErrFetchFailed):
		return CodeFetchFailed
	case errors.Is(err, tail.ErrNoCursor), errors.Is(err, tail.ErrInFlight), errors.Is(err, tail.ErrNotStarted):
		return CodeFetchFailed
	default:
		return "ERROR"
	}
}

// invalidInterval builds the error for unparseable duration flags
func invalidInterval(flag, value string, err error) *CLIError {
	return &CLIError{
		Code:    CodeInvalidInterval,
		Message: fmt.Sprintf("invalid --%s %q: %v", flag, value, err),
		Hint:    "Use a Go duration such as 2s, 500ms or 5m",
	}
}
