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

// Package timeout bounds how long the rest of the pipeline may run.
//
// The request context gets a deadline. When it passes before the next link
// returns, the middleware answers with 408 Request Timeout and abandons the
// pending result. Handlers should watch the context so abandoned work stops:
//
//	func report(req *message.Request, args ...string) (*message.Response, error) {
//	    rows, err := db.QueryContext(req.Context(), query)
//	    ...
//	}
//
// # Goroutines
//
// Everything after this middleware runs on its own goroutine, so a pipeline
// that includes it no longer runs on a single synchronous call stack.
// Middleware registered before it keeps running on the dispatching
// goroutine; middleware after it and the handler do not. State tied to the
// calling goroutine is not visible downstream: pass values through the
// request context instead. After a timeout the abandoned goroutine may still
// be running while the 408 response is written, and its result is
// discarded.
//
// # Usage
//
//	c.Instance("timeout", timeout.New(
//	    timeout.WithDuration(5*time.Second),
//	    timeout.WithSkipPrefix("/stream"),
//	))
//	r.Use("timeout")
//
// # Custom Responses
//
//	timeout.WithHandler(func(req *message.Request, d time.Duration) *message.Response {
//	    return message.Text(http.StatusServiceUnavailable, "try again later")
//	})
//
// # Panics
//
// A panic raised before the deadline is re-raised in the calling goroutine,
// so recovery middleware registered earlier still sees it. A panic raised
// after the deadline is logged and dropped.
package timeout
