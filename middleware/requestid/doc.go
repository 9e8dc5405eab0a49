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

// Package requestid assigns every request an ID for log and trace correlation.
//
// The ID is taken from the X-Request-ID header when the client sent one, or
// generated otherwise. It is stored in the request context for handlers and
// later middleware, and echoed in the response header.
//
//	c.Instance("request_id", requestid.New())
//	r.Use("request_id")
//
// # ID Formats
//
//   - UUID v7 (default): 018f3e9a-1b2c-7def-8000-abcdef123456, time ordered
//   - UUID v4 via [WithUUIDv4]: random
//   - ULID via [WithULID]: 01ARZ3NDEKTSV4RRFFQ69G5FAV, 26 characters
//
// # Accessing the ID
//
//	func show(req *message.Request, args ...string) (*message.Response, error) {
//	    logger.Info("showing user", "request_id", requestid.Get(req))
//	    ...
//	}
package requestid
