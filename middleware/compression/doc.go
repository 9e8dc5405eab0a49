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

// Package compression compresses response bodies with brotli or gzip.
//
// The encoding is chosen from the request's Accept-Encoding header. Brotli
// wins a tie in quality values; "q=0" rules an encoding out. Responses
// pass through unchanged when they are smaller than the minimum size, already
// carry a Content-Encoding, have an excluded content type or path, or are
// marked Cache-Control: no-transform.
//
//	c.Instance("compress", compression.New(
//	    compression.WithMinSize(512),
//	    compression.WithExcludePaths("/metrics"),
//	))
//	r.Use("compress")
//
// Responses are buffered, so the whole body is compressed at once and
// Content-Length is recomputed when the response is sent.
//
// # Content Type Filtering
//
// Already compressed formats are skipped by default:
//
//   - image/* except image/svg+xml
//   - video/* and audio/*
//   - application/zip, application/gzip, application/x-brotli
package compression
