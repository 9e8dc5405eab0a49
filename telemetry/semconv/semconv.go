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

package semconv

// Service metadata, set once per process.
const (
	ServiceName       = "service.name"
	ServiceVersion    = "service.version"
	DeploymentEnviron = "deployment.environment"
)

// HTTP request and response attributes.
const (
	// HTTPMethod is the request method, e.g. "GET".
	HTTPMethod = "http.request.method"

	// HTTPRoute is the matched pattern ("/users/{id}"), or a dispatch
	// sentinel such as "_not_found" when nothing matched.
	HTTPRoute = "http.route"

	// HTTPStatusCode is the response status code.
	HTTPStatusCode = "http.response.status_code"

	// HTTPRequestHeaderPrefix is followed by the lowercased header name.
	HTTPRequestHeaderPrefix = "http.request.header."

	URLPath       = "url.path"
	ServerAddress = "server.address"
	UserAgent     = "user_agent.original"
)

// RouteName is the name given to a route with SetName.
const RouteName = "kernel.route.name"

// Correlation fields used in log records.
const (
	TraceID   = "trace_id"
	SpanID    = "span_id"
	RequestID = "request_id"
)

// Exception attributes set on spans when a panic is recovered.
const (
	ExceptionType    = "exception.type"
	ExceptionMessage = "exception.message"
	ExceptionEscaped = "exception.escaped"
)
