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

// Package semconv holds the attribute keys shared by logs, metrics and
// traces emitted around dispatch.
//
// HTTP and service keys follow the OpenTelemetry semantic conventions, so
// the same field lines up in a log line and in a span:
//
//	logger.Info("route frozen",
//	    semconv.HTTPRoute, "/users/{id}",
//	    semconv.RouteName, "users.show",
//	)
//
// Reference: https://opentelemetry.io/docs/specs/semconv/http/
package semconv
