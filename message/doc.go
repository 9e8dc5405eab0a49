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

// Package message provides the request and response types exchanged between
// the dispatcher, middleware and route handlers.
//
// Requests wrap *http.Request and carry the routing result (path parameters,
// matched pattern, route name). Responses are value-like: every modification
// returns a new *Response, so middleware can post-process what the next link
// returned without side effects.
package message
