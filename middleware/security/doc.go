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

// Package security adds protective headers to every response.
//
// The headers are applied after the handler returns, so they also reach the
// synthetic 404, 405 and 500 responses when the middleware is global. A
// header the handler already set is left alone.
//
//	c.Instance("secure_headers", security.New(security.ProductionPreset()))
//	r.Use("secure_headers")
//
// # Default Headers
//
//   - X-Frame-Options: DENY
//   - X-Content-Type-Options: nosniff
//   - X-XSS-Protection: 1; mode=block
//   - Content-Security-Policy: default-src 'self'
//   - Referrer-Policy: strict-origin-when-cross-origin
//   - Strict-Transport-Security: max-age=31536000; includeSubDomains
//
// Strict-Transport-Security is only sent over TLS, or when the request
// carries X-Forwarded-Proto: https and [WithTrustForwardedProto] is set.
package security
