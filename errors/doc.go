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

// Package errors turns errors escaping a dispatch into HTTP responses.
//
// A [Formatter] maps an error to a *message.Response. Three formatters are
// provided:
//
//   - [PlainText]: "500 Internal Server Error" style text bodies
//   - [Simple]: {"error": "...", "code": "...", "details": ...}
//   - [RFC9457]: application/problem+json Problem Details
//
// Errors choose their own status by implementing [ErrorType] (or by being
// wrapped with [WithStatus]), and may add a machine-readable code through
// [ErrorCode] and structured details through [ErrorDetails].
//
// The formatters are used by middleware/recovery, the router's optional
// error boundary.
package errors
