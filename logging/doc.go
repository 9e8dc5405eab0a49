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

// Package logging builds [log/slog] loggers for the kernel.
//
// A [Logger] is configured with functional options and exposes the
// underlying *slog.Logger, which is what the router and the middleware
// packages accept:
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithServiceName("orders"),
//	    logging.WithDebugLevel(),
//	)
//	r := router.MustNew(router.WithLogger(logger.Logger()))
//
// Three output formats are available: JSON (default), text key=value and a
// human-readable console format. Console colors are only written when the
// output is a terminal, unless forced with [WithColor].
//
// [NewContextLogger] adds trace_id and span_id from an OpenTelemetry span
// in the context, and [NewTestHelper] captures JSON output in tests.
package logging
