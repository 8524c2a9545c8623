package logsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/jittail/internal/domain"
)

func TestClientFetchLogs(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"group": "/aws/states/ecommerce_jit_workflow",
			"count": 2,
			"items": [
				{"ts": "2025-03-01T12:00:00.123000+00:00", "message": "START RequestId: 1\n", "stream": "2025/03/01/[$LATEST]abc"},
				{"ts": "2025-03-01T12:00:01+00:00", "message": "END RequestId: 1", "stream": "2025/03/01/[$LATEST]abc"}
			],
			"next": "tok-2"
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL + "/prod")
	require.NoError(t, err)

	page, err := c.FetchLogs(context.Background(), domain.PageRequest{
		LogQuery: domain.LogQuery{Group: domain.GroupWorkflow, WindowMinutes: 30, Pattern: "[WARM-COLD]", PageSize: 50},
		Cursor:   "tok-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "/prod/logs", gotPath)
	assert.Equal(t, map[string]string{
		"group":   "sfn",
		"minutes": "30",
		"limit":   "50",
		"pattern": "[WARM-COLD]",
		"next":    "tok-1",
	}, gotQuery)

	assert.Equal(t, "tok-2", page.Cursor)
	assert.Equal(t, "/aws/states/ecommerce_jit_workflow", page.Group)
	require.Len(t, page.Items, 2)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 123000000, time.UTC), page.Items[0].Timestamp.UTC())
	assert.Equal(t, "START RequestId: 1\n", page.Items[0].Message, "messages are kept untrimmed")
	assert.Equal(t, "2025/03/01/[$LATEST]abc", page.Items[0].Stream)
}

func TestClientOmitsEmptyPatternAndCursor(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"group":"g","count":0,"items":[],"next":null}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	page, err := c.FetchLogs(context.Background(), domain.PageRequest{
		LogQuery: domain.LogQuery{Group: domain.GroupTarget, WindowMinutes: 15, PageSize: 100},
	})
	require.NoError(t, err)
	assert.NotContains(t, raw, "pattern")
	assert.NotContains(t, raw, "next")
	assert.False(t, page.HasCursor())
	assert.Empty(t, page.Items)
}

func TestClientNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"log group not found: /aws/lambda/x"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchLogs(context.Background(), domain.PageRequest{
		LogQuery: domain.LogQuery{Group: domain.GroupInit, WindowMinutes: 15, PageSize: 100},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "log group not found")
}

func TestClientDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchLogs(context.Background(), domain.PageRequest{
		LogQuery: domain.LogQuery{Group: domain.GroupInit, WindowMinutes: 15, PageSize: 100},
	})
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.FetchLogs(context.Background(), domain.PageRequest{
		LogQuery: domain.LogQuery{Group: domain.GroupTarget, WindowMinutes: 15, PageSize: 100},
	})
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://127.0.0.1:8080", "http://127.0.0.1:8080/", false},
		{"https://api.example.com/prod", "https://api.example.com/prod/", false},
		{"api.example.com/prod/", "https://api.example.com/prod/", false},
		{"https://api.example.com/prod?x=1#frag", "https://api.example.com/prod/", false},
		{"", "", true},
		{"   ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := parseBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	assert.True(t, ParseTimestamp("").IsZero())
	assert.True(t, ParseTimestamp("yesterday").IsZero())
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), ParseTimestamp("2025-03-01T12:00:00Z"))
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 500000000, time.UTC), ParseTimestamp("2025-03-01T12:00:00.5"))
}

func TestMockSource(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	src := NewMockSource(mock)

	page, err := src.FetchLogs(context.Background(), domain.PageRequest{
		LogQuery: domain.LogQuery{Group: domain.GroupCollector, WindowMinutes: 15, PageSize: 100},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 13)
	assert.False(t, page.HasCursor())
	assert.Equal(t, "/mock/collector", page.Group)
	assert.Contains(t, page.Items[0].Message, "AM COLD")
	assert.Contains(t, page.Items[12].Message, "AM WARM (#12)")
	assert.Equal(t, mock.Now().Add(-20*time.Second), page.Items[0].Timestamp)

	page, err = src.FetchLogs(context.Background(), domain.PageRequest{
		LogQuery: domain.LogQuery{Group: domain.GroupTarget, WindowMinutes: 15, PageSize: 5},
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.FetchLogs(ctx, domain.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}
