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

// Package accesslog logs one structured line per dispatched request.
//
// Each line carries the method, path, matched pattern, status, duration,
// body size, request ID, user agent and client IP. Synthetic responses
// (404, 405, 500) are logged like any other, with their sentinel pattern.
//
//	c.Instance("access_log", accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/health"),
//	))
//	r.Use("request_id", "access_log")
//
// # Levels
//
// Requests log at Info. Client and server errors, requests that failed with
// an error and requests slower than [WithSlowThreshold] log at Warn; slow
// requests carry slow=true.
//
// # Sampling
//
// [WithSampleRate] keeps a fraction of successful requests. The decision is
// derived from the request ID, so every service in a call chain keeps or
// drops the same requests. Errors and slow requests are always logged.
package accesslog
