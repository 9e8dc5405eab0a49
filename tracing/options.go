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
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Tracer].
type Option func(*Tracer)

// WithStdout exports spans as JSON to w.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		t.stdout = w
		t.providerSetCount++
	}
}

// WithOTLP exports spans over OTLP/gRPC to endpoint ("host:port").
func WithOTLP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.otlpEndpoint = endpoint
		t.providerSetCount++
	}
}

// WithOTLPHTTP exports spans over OTLP/HTTP to endpoint ("host:port").
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.otlpEndpoint = endpoint
		t.providerSetCount++
	}
}

// WithOTLPInsecure disables TLS for the OTLP exporters.
func WithOTLPInsecure() Option {
	return func(t *Tracer) {
		t.otlpInsecure = true
	}
}

// WithTracerProvider uses a caller-managed provider. [Tracer.Shutdown]
// does not shut it down.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.tracerProvider = provider
		t.customProvider = true
		t.providerSetCount++
	}
}

// WithGlobalTracerProvider registers the provider with otel.SetTracerProvider.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithPropagator replaces the W3C trace context and baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) {
		t.propagator = p
	}
}

// WithSampleRate samples the given fraction of new traces. Requests that
// carry a sampled parent are always traced. It has no effect with
// [WithTracerProvider].
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = rate
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithHeaders records the given request headers as span attributes.
func WithHeaders(headers ...string) Option {
	return func(t *Tracer) {
		for _, h := range headers {
			t.recordHeaders = append(t.recordHeaders, strings.ToLower(h))
		}
	}
}

// WithExcludePaths skips tracing for requests whose path equals one of paths.
func WithExcludePaths(paths ...string) Option {
	return func(t *Tracer) {
		for _, p := range paths {
			t.excludePaths[p] = true
		}
	}
}

// WithLogger sets the logger for internal events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}
