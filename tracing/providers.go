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
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rivaas.dev/kernel/telemetry/semconv"
)

func (t *Tracer) initializeProvider() error {
	if t.customProvider {
		t.logger.Debug("using caller-managed tracer provider")
	} else {
		exporter, err := t.newExporter()
		if err != nil {
			return err
		}
		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
		}
		if exporter != nil {
			opts = append(opts, sdktrace.WithBatcher(exporter))
		}
		t.sdkProvider = sdktrace.NewTracerProvider(opts...)
		t.tracerProvider = t.sdkProvider
	}

	if t.registerGlobal {
		t.logger.Debug("setting global tracer provider", "provider", t.provider)
		otel.SetTracerProvider(t.tracerProvider)
		otel.SetTextMapPropagator(t.propagator)
	}
	t.tracer = t.tracerProvider.Tracer(tracerName)
	return nil
}

// newExporter returns nil for [NoopProvider].
func (t *Tracer) newExporter() (sdktrace.SpanExporter, error) {
	ctx := context.Background()
	switch t.provider {
	case NoopProvider:
		return nil, nil
	case StdoutProvider:
		w := t.stdout
		if w == nil {
			w = os.Stdout
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exp, nil
	case OTLPProvider:
		var opts []otlptracegrpc.Option
		if t.otlpEndpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
		}
		if t.otlpInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
		}
		return exp, nil
	case OTLPHTTPProvider:
		var opts []otlptracehttp.Option
		if t.otlpEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(t.otlpEndpoint))
		}
		if t.otlpInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewSchemaless(
		attribute.String(semconv.ServiceName, serviceName),
		attribute.String(semconv.ServiceVersion, serviceVersion),
	)
}
