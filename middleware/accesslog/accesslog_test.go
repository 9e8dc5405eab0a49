// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package accesslog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/middleware/requestid"
	"rivaas.dev/kernel/router"
)

// testHandler is a slog.Handler that captures log records.
type testHandler struct {
	mu      sync.Mutex
	records []testRecord
}

type testRecord struct {
	level slog.Level
	msg   string
	attrs map[string]any
}

func (h *testHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	h.records = append(h.records, testRecord{level: r.Level, msg: r.Message, attrs: attrs})
	return nil
}

func (h *testHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *testHandler) WithGroup(string) slog.Handler      { return h }

func (h *testHandler) all() []testRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]testRecord(nil), h.records...)
}

func newRouter(t *testing.T, h *testHandler, opts ...Option) *router.Router {
	t.Helper()
	c := container.New()
	c.Instance("request_id", requestid.New())
	c.Instance("access_log", New(append([]Option{WithLogger(slog.New(h))}, opts...)...))

	r := router.MustNew(router.WithResolver(c))
	r.Use("request_id", "access_log")
	r.GET("/users/{id}", container.Func(func(_ *message.Request, args ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, "user "+args[0]), nil
	})).SetName("users.show")
	r.GET("/health", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, "ok"), nil
	}))
	r.GET("/debug/vars", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, "{}"), nil
	}))
	r.GET("/boom", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		return nil, errors.New("database unavailable")
	}))
	r.GET("/slow", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		time.Sleep(20 * time.Millisecond)
		return message.Text(http.StatusOK, "done"), nil
	}))
	return r
}

func dispatch(r *router.Router, method, path string, header ...string) {
	httpReq := httptest.NewRequest(method, path, nil)
	httpReq.RemoteAddr = "192.0.2.10:4321"
	for i := 0; i+1 < len(header); i += 2 {
		httpReq.Header.Set(header[i], header[i+1])
	}
	_, _ = r.Dispatch(message.FromHTTP(httpReq))
}

func TestAccessLog_BasicLogging(t *testing.T) {
	t.Parallel()
	h := &testHandler{}
	r := newRouter(t, h)

	dispatch(r, http.MethodGet, "/users/42", "User-Agent", "kernel-test")

	records := h.all()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "http request", rec.msg)
	assert.Equal(t, slog.LevelInfo, rec.level)
	assert.Equal(t, "GET", rec.attrs["method"])
	assert.Equal(t, "/users/42", rec.attrs["path"])
	assert.Equal(t, "/users/{id}", rec.attrs["pattern"])
	assert.Equal(t, "users.show", rec.attrs["route"])
	assert.Equal(t, int64(http.StatusOK), rec.attrs["status"])
	assert.Equal(t, int64(len("user 42")), rec.attrs["bytes"])
	assert.Equal(t, "kernel-test", rec.attrs["user_agent"])
	assert.Equal(t, "192.0.2.10", rec.attrs["client_ip"])
	assert.NotEmpty(t, rec.attrs["request_id"])
	assert.IsType(t, time.Duration(0), rec.attrs["duration"])
}

func TestAccessLog_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		path    string
		level   slog.Level
		status  int64
		pattern string
	}{
		{"success", http.MethodGet, "/users/1", slog.LevelInfo, 200, "/users/{id}"},
		{"not found", http.MethodGet, "/nope", slog.LevelWarn, 404, "_not_found"},
		{"method not allowed", http.MethodPost, "/users/1", slog.LevelWarn, 405, "_method_not_allowed"},
		{"handler error", http.MethodGet, "/boom", slog.LevelWarn, 500, "/boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := &testHandler{}
			dispatch(newRouter(t, h), tt.method, tt.path)

			records := h.all()
			require.Len(t, records, 1)
			assert.Equal(t, tt.level, records[0].level)
			assert.Equal(t, tt.status, records[0].attrs["status"])
			assert.Equal(t, tt.pattern, records[0].attrs["pattern"])
		})
	}
}

func TestAccessLog_ErrorField(t *testing.T) {
	t.Parallel()
	h := &testHandler{}
	dispatch(newRouter(t, h), http.MethodGet, "/boom")

	records := h.all()
	require.Len(t, records, 1)
	assert.Contains(t, records[0].attrs["error"], "database unavailable")
}

func TestAccessLog_Exclusions(t *testing.T) {
	t.Parallel()
	h := &testHandler{}
	r := newRouter(t, h, WithExcludePaths("/health"), WithExcludePrefixes("/debug"))

	dispatch(r, http.MethodGet, "/health")
	dispatch(r, http.MethodGet, "/debug/vars")
	dispatch(r, http.MethodGet, "/users/7")

	records := h.all()
	require.Len(t, records, 1)
	assert.Equal(t, "/users/7", records[0].attrs["path"])
}

func TestAccessLog_SlowRequests(t *testing.T) {
	t.Parallel()
	h := &testHandler{}
	r := newRouter(t, h, WithSlowThreshold(10*time.Millisecond), WithErrorsOnly())

	dispatch(r, http.MethodGet, "/users/1")
	dispatch(r, http.MethodGet, "/slow")

	records := h.all()
	require.Len(t, records, 1, "errors-only keeps slow requests")
	assert.Equal(t, slog.LevelWarn, records[0].level)
	assert.Equal(t, true, records[0].attrs["slow"])
	assert.Equal(t, "/slow", records[0].attrs["path"])
}

func TestAccessLog_ErrorsOnly(t *testing.T) {
	t.Parallel()
	h := &testHandler{}
	r := newRouter(t, h, WithErrorsOnly())

	dispatch(r, http.MethodGet, "/users/1")
	dispatch(r, http.MethodGet, "/missing")

	records := h.all()
	require.Len(t, records, 1)
	assert.Equal(t, int64(http.StatusNotFound), records[0].attrs["status"])
}

func TestAccessLog_Sampling(t *testing.T) {
	t.Parallel()

	t.Run("zero drops successes but keeps errors", func(t *testing.T) {
		t.Parallel()
		h := &testHandler{}
		r := newRouter(t, h, WithSampleRate(0))
		for range 10 {
			dispatch(r, http.MethodGet, "/users/1")
		}
		dispatch(r, http.MethodGet, "/missing")

		records := h.all()
		require.Len(t, records, 1)
		assert.Equal(t, int64(http.StatusNotFound), records[0].attrs["status"])
	})

	t.Run("decision is stable per request id", func(t *testing.T) {
		t.Parallel()
		h := &testHandler{}
		r := newRouter(t, h, WithSampleRate(0.5))

		for i := range 50 {
			id := fmt.Sprintf("req-%d", i)
			dispatch(r, http.MethodGet, "/users/1", "X-Request-ID", id)
			dispatch(r, http.MethodGet, "/users/1", "X-Request-ID", id)
		}

		counts := make(map[any]int)
		for _, rec := range h.all() {
			counts[rec.attrs["request_id"]]++
		}
		assert.NotEmpty(t, counts)
		assert.Less(t, len(counts), 50)
		for id, n := range counts {
			assert.Equal(t, 2, n, "request %v sampled inconsistently", id)
		}
	})

	t.Run("rate is clamped", func(t *testing.T) {
		t.Parallel()
		cfg := defaultConfig()
		WithSampleRate(3)(cfg)
		assert.InDelta(t, 1.0, cfg.sampleRate, 0)
		WithSampleRate(-1)(cfg)
		assert.InDelta(t, 0.0, cfg.sampleRate, 0)
	})
}

func TestAccessLog_RequestIDFunc(t *testing.T) {
	t.Parallel()
	h := &testHandler{}
	r := newRouter(t, h, WithRequestIDFunc(func(req *message.Request) string {
		return req.Header().Get("X-Trace")
	}))

	dispatch(r, http.MethodGet, "/users/1", "X-Trace", "trace-9")

	records := h.all()
	require.Len(t, records, 1)
	assert.Equal(t, "trace-9", records[0].attrs["request_id"])
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:80", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.9"}, "10.0.0.1:80", "203.0.113.9"},
		{"peer", nil, "198.51.100.3:5555", "198.51.100.3"},
		{"peer without port", nil, "198.51.100.3", "198.51.100.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			httpReq := httptest.NewRequest(http.MethodGet, "/", nil)
			httpReq.RemoteAddr = tt.remote
			for k, v := range tt.header {
				httpReq.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(message.FromHTTP(httpReq)))
		})
	}
}
