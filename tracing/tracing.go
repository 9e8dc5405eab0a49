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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/telemetry/semconv"
)

// Provider names a span exporter.
type Provider string

const (
	// NoopProvider records spans without exporting them (default).
	NoopProvider Provider = "noop"
	// StdoutProvider writes spans as JSON, for development.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports over OTLP/gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports over OTLP/HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

const (
	tracerName       = "rivaas.dev/kernel/tracing"
	unmatchedPattern = "_unmatched"
)

// ErrNilTracerProvider is returned when [WithTracerProvider] receives nil.
var ErrNilTracerProvider = errors.New("tracing: nil tracer provider")

// Tracer creates request spans. All methods are safe for concurrent use.
type Tracer struct {
	provider         Provider
	providerSetCount int
	tracerProvider   trace.TracerProvider
	sdkProvider      *sdktrace.TracerProvider
	customProvider   bool
	registerGlobal   bool

	tracer     trace.Tracer
	propagator propagation.TextMapPropagator

	otlpEndpoint string
	otlpInsecure bool
	stdout       io.Writer

	serviceName    string
	serviceVersion string
	sampleRate     float64

	recordHeaders []string
	excludePaths  map[string]bool

	logger         *slog.Logger
	isShuttingDown atomic.Bool
}

// New creates a [Tracer].
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:       NoopProvider,
		propagator:     propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		serviceName:    "rivaas-service",
		serviceVersion: "1.0.0",
		sampleRate:     1.0,
		excludePaths:   make(map[string]bool),
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := t.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic("tracing initialization failed: " + err.Error())
	}
	return t
}

func (t *Tracer) validate() error {
	var errs []error
	if t.providerSetCount > 1 {
		errs = append(errs, errors.New("multiple providers configured; choose one"))
	}
	if t.customProvider && t.tracerProvider == nil {
		errs = append(errs, ErrNilTracerProvider)
	}
	if t.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if t.sampleRate < 0 || t.sampleRate > 1 {
		errs = append(errs, fmt.Errorf("sample rate must be between 0 and 1, got %v", t.sampleRate))
	}
	if t.propagator == nil {
		errs = append(errs, errors.New("propagator cannot be nil"))
	}
	return errors.Join(errs...)
}

// Provider returns the configured exporter.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// Tracer returns the underlying OpenTelemetry tracer.
func (t *Tracer) Tracer() trace.Tracer {
	return t.tracer
}

// ServiceName returns the service.name resource value.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// StartRequestSpan extracts the caller's trace context from the request
// headers and starts a server span named "METHOD pattern". The returned
// context carries the span.
func (t *Tracer) StartRequestSpan(req *message.Request) (context.Context, trace.Span) {
	ctx := t.propagator.Extract(req.Context(), propagation.HeaderCarrier(req.Header()))
	if t.isShuttingDown.Load() {
		return ctx, noop.Span{}
	}

	pattern := req.Pattern()
	if pattern == "" {
		pattern = unmatchedPattern
	}

	attrs := make([]attribute.KeyValue, 0, 6+len(t.recordHeaders))
	attrs = append(attrs,
		attribute.String(semconv.HTTPMethod, req.Method()),
		attribute.String(semconv.HTTPRoute, pattern),
		attribute.String(semconv.URLPath, req.Path()),
		attribute.String(semconv.ServerAddress, req.HTTP().Host),
	)
	if ua := req.Header().Get("User-Agent"); ua != "" {
		attrs = append(attrs, attribute.String(semconv.UserAgent, ua))
	}
	if name := req.RouteName(); name != "" {
		attrs = append(attrs, attribute.String(semconv.RouteName, name))
	}
	for _, h := range t.recordHeaders {
		if v := req.Header().Get(h); v != "" {
			attrs = append(attrs, attribute.String(semconv.HTTPRequestHeaderPrefix+h, v))
		}
	}

	return t.tracer.Start(ctx, req.Method()+" "+pattern,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}

// FinishRequestSpan records the outcome and ends span. An error or a 5xx
// status marks the span as failed.
func (t *Tracer) FinishRequestSpan(span trace.Span, status int, err error) {
	if span == nil || !span.IsRecording() {
		return
	}
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Int(semconv.HTTPStatusCode, http.StatusInternalServerError))
		return
	}
	span.SetAttributes(attribute.Int(semconv.HTTPStatusCode, status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
	}
}

// InjectTraceContext writes the trace context of ctx into headers.
func (t *Tracer) InjectTraceContext(ctx context.Context, headers http.Header) {
	t.propagator.Inject(ctx, propagation.HeaderCarrier(headers))
}

// ForceFlush exports pending spans of a provider built by [New].
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if t.sdkProvider == nil {
		return nil
	}
	return t.sdkProvider.ForceFlush(ctx)
}

// Shutdown flushes and stops a provider built by [New]. A provider supplied
// with [WithTracerProvider] is left to its owner. Calling Shutdown again is a
// no-op.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		t.logger.Error("tracer provider shutdown failed", "error", err)
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	return nil
}

// TraceID returns the hex trace ID of the span in ctx, or "".
func TraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// SpanID returns the hex span ID of the span in ctx, or "".
func SpanID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		return sc.SpanID().String()
	}
	return ""
}
