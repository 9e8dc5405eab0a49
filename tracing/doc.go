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

// Package tracing opens an OpenTelemetry span for every dispatched request.
//
// A [Tracer] builds its own TracerProvider for the stdout, OTLP/gRPC or
// OTLP/HTTP exporters, or uses one supplied with [WithTracerProvider].
// Its [Tracer.Middleware] names spans "METHOD pattern", where pattern is the
// matched route pattern or one of the router's sentinels such as
// "_not_found". Responses with a 5xx status and errors escaping the pipeline
// mark the span as failed.
//
//	tr := tracing.MustNew(
//	    tracing.WithOTLP("collector:4317"),
//	    tracing.WithServiceName("orders"),
//	)
//	defer tr.Shutdown(context.Background())
//
//	c.Instance("tracing", tr.Middleware())
//	r.Use("tracing")
//
// Incoming W3C trace context headers are honored, so spans join the
// caller's trace.
package tracing
