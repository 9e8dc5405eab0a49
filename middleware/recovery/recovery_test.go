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

package recovery

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/kernel/container"
	kerrors "rivaas.dev/kernel/errors"
	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
)

func newRouter(t *testing.T, mw router.Middleware) *router.Router {
	t.Helper()
	c := container.New()
	c.Instance("recovery", mw)

	r := router.MustNew(router.WithResolver(c))
	r.Use("recovery")
	r.GET("/ok", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, "fine"), nil
	}))
	r.GET("/panic", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		panic("something broke")
	}))
	r.GET("/error", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		return nil, kerrors.WithStatus(errors.New("no such user"), http.StatusNotFound)
	}))
	return r
}

func get(t *testing.T, r *router.Router, path string) (*message.Response, error) {
	t.Helper()
	return r.Dispatch(message.FromHTTP(httptest.NewRequest(http.MethodGet, path, nil)))
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	r := newRouter(t, New(WithLogger(slog.New(slog.NewJSONHandler(&logs, nil)))))

	res, err := get(t, r, "/panic")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.Status())
	assert.Equal(t, "500 Internal Server Error", res.BodyString())

	assert.Contains(t, logs.String(), "panic recovered")
	assert.Contains(t, logs.String(), "something broke")
	assert.Contains(t, logs.String(), `"pattern":"/panic"`)
	assert.Contains(t, logs.String(), "stack")
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	r := newRouter(t, New(WithoutLogging()))
	res, err := get(t, r, "/ok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status())
	assert.Equal(t, "fine", res.BodyString())
}

func TestRecovery_Errors(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	r := newRouter(t, New(
		WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		WithFormatter(kerrors.NewSimple()),
	))

	res, err := get(t, r, "/error")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.Status())
	assert.JSONEq(t, `{"error":"no such user"}`, res.BodyString())
	assert.Contains(t, logs.String(), "request failed")
	assert.Contains(t, logs.String(), `"status":404`)
}

func TestRecovery_ErrorsDisabled(t *testing.T) {
	t.Parallel()

	r := newRouter(t, New(WithoutLogging(), WithErrors(false)))

	_, err := get(t, r, "/error")
	require.Error(t, err)
	assert.Equal(t, "no such user", err.Error())

	// panics are still handled
	res, err := get(t, r, "/panic")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.Status())
}

func TestRecovery_CustomHandler(t *testing.T) {
	t.Parallel()

	var got any
	r := newRouter(t, New(WithoutLogging(), WithHandler(func(_ *message.Request, v any) *message.Response {
		got = v
		return message.Text(http.StatusServiceUnavailable, "try again later")
	})))

	res, err := get(t, r, "/panic")
	require.NoError(t, err)
	assert.Equal(t, "something broke", got)
	assert.Equal(t, http.StatusServiceUnavailable, res.Status())
	assert.Equal(t, "try again later", res.BodyString())
}

func TestRecovery_StackOptions(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		var logs bytes.Buffer
		r := newRouter(t, New(WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))), WithStackTrace(false)))
		_, err := get(t, r, "/panic")
		require.NoError(t, err)
		assert.Contains(t, logs.String(), "panic recovered")
		assert.NotContains(t, logs.String(), "goroutine")
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()
		var logs bytes.Buffer
		r := newRouter(t, New(WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))), WithStackSize(64)))
		_, err := get(t, r, "/panic")
		require.NoError(t, err)
		assert.Less(t, logs.Len(), 1024)
		assert.Contains(t, logs.String(), "goroutine")
	})
}

func TestRecovery_MarksSpan(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := newRouter(t, New(WithoutLogging()))
	for _, path := range []string{"/panic", "/error"} {
		ctx, span := tp.Tracer("test").Start(context.Background(), path)
		req := message.FromHTTP(httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx))
		_, err := r.Dispatch(req)
		require.NoError(t, err)
		span.End()
	}

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	var escaped bool
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "exception.escaped" {
			escaped = kv.Value.AsBool()
		}
	}
	assert.True(t, escaped)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.NotEmpty(t, spans[1].Events())
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestPanicError(t *testing.T) {
	t.Parallel()

	base := errors.New("db down")
	err := &PanicError{Value: base}
	assert.Equal(t, "panic: db down", err.Error())
	assert.ErrorIs(t, err, base)
	assert.NoError(t, (&PanicError{Value: 42}).Unwrap())
}
