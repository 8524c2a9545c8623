package cli

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/vburojevic/jittail/internal/domain"
	"github.com/vburojevic/jittail/internal/logsapi"
)

func hintFor(err error) string {
	if err == nil {
		return ""
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		return cliErr.Hint
	}
	if errors.Is(err, domain.ErrUnknownGroup) {
		return "Run `jittail groups` to list valid groups"
	}
	if errors.Is(err, domain.ErrInvalidQuery) {
		return "--minutes and --limit must be positive"
	}
	if h := hintForAPI(err); h != "" {
		return h
	}
	return ""
}

func hintForAPI(err error) string {
	var apiErr *logsapi.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return "Check the API stage path in --api (e.g. .../prod) and that the log group exists"
		case apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusUnauthorized:
			return "The API rejected the request; check the API base and its authorizer"
		case apiErr.StatusCode >= 500:
			return "The log proxy failed; polling continues at the next interval"
		}
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out; raise request_timeout in the config file"
	}
	var netErr net.Error
	var opErr *net.OpError
	if errors.As(err, &opErr) || errors.As(err, &netErr) {
		return "Backend unreachable; check --api or run with --mock"
	}
	return ""
}
