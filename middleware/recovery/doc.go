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

// Package recovery is the error boundary of a dispatch pipeline.
//
// The middleware recovers panics raised further down the pipeline and, unless
// disabled with [WithErrors], also catches errors returned by it. Either way
// the request is answered with the response produced by an errors.Formatter
// (plain "500 Internal Server Error" by default) instead of failing the whole
// dispatch. Panics are logged with a stack trace; both cases mark the active
// OpenTelemetry span as failed.
//
// Register it first so it covers everything after it:
//
//	c.Instance("recovery", recovery.New(recovery.WithLogger(logger)))
//	r.Use("recovery", "request_id", "access_log")
//
// Custom responses:
//
//	recovery.New(recovery.WithFormatter(errors.NewRFC9457("https://example.com/problems")))
//
// # OpenTelemetry
//
// Recovered panics are recorded on the span from the request context with:
//
//   - exception.escaped: true
//   - exception.type: type of the panic value
//   - exception.message: the panic value
package recovery
