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

// Package metrics records dispatch metrics with OpenTelemetry.
//
// A [Recorder] owns a meter provider backed by one of four exporters:
// Prometheus (default, scraped through [Recorder.Handler]), OTLP over HTTP,
// OTLP over gRPC or stdout. A caller-managed provider can be supplied with [WithMeterProvider].
//
//	rec := metrics.MustNew(metrics.WithServiceName("orders"))
//	defer rec.Shutdown(context.Background())
//
//	c := container.New()
//	c.Instance("metrics", rec.Middleware())
//	r := router.MustNew(router.WithResolver(c))
//	r.Use("metrics")
//
// The middleware records two instruments labeled with the request method,
// the matched route pattern and the response status:
//
//   - kernel.dispatch.requests (counter)
//   - kernel.dispatch.duration (histogram, seconds)
//
// Unmatched requests carry the router's pattern sentinels, such as
// "_not_found", so label cardinality stays bounded.
//
// By default the global OpenTelemetry meter provider is left alone; use
// [WithGlobalMeterProvider] to register it.
package metrics
