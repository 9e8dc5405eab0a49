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

package compression

import (
	"compress/gzip"
	"log/slog"
	"strings"
)

// WithGzipLevel sets the gzip compression level, from gzip.HuffmanOnly (-2)
// to gzip.BestCompression (9). Out of range values fall back to
// gzip.DefaultCompression.
//
// Example:
//
//	compression.New(compression.WithGzipLevel(gzip.BestCompression))
func WithGzipLevel(level int) Option {
	return func(cfg *config) {
		if level < gzip.HuffmanOnly || level > gzip.BestCompression {
			level = gzip.DefaultCompression
		}
		cfg.gzipLevel = level
	}
}

// WithBrotliLevel sets the brotli compression level, clamped to [0, 11].
// Levels above 5 cost a lot of CPU for dynamic content. Default: 4.
//
// Example:
//
//	compression.New(compression.WithBrotliLevel(5))
func WithBrotliLevel(level int) Option {
	return func(cfg *config) {
		cfg.brotliLevel = max(0, min(level, 11))
	}
}

// WithBrotliDisabled disables Brotli compression (gzip only).
//
// Example:
//
//	compression.New(compression.WithBrotliDisabled())
func WithBrotliDisabled() Option {
	return func(cfg *config) {
		cfg.enableBrotli = false
	}
}

// WithGzipDisabled disables gzip compression (Brotli only).
//
// Example:
//
//	compression.New(compression.WithGzipDisabled())
func WithGzipDisabled() Option {
	return func(cfg *config) {
		cfg.enableGzip = false
	}
}

// WithMinSize sets the smallest body, in bytes, that is compressed.
// Default: 1024.
//
// Example:
//
//	compression.New(compression.WithMinSize(2048))
func WithMinSize(size int) Option {
	return func(cfg *config) {
		cfg.minSize = max(0, size)
	}
}

// WithExcludePaths sets paths whose responses are never compressed.
//
// Example:
//
//	compression.New(compression.WithExcludePaths("/metrics", "/stream"))
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, path := range paths {
			cfg.excludePaths[path] = true
		}
	}
}

// WithExcludeExtensions skips request paths ending in one of extensions.
//
// Example:
//
//	compression.New(compression.WithExcludeExtensions(".jpg", ".png", ".gif", ".zip", ".gz"))
func WithExcludeExtensions(extensions ...string) Option {
	return func(cfg *config) {
		for _, ext := range extensions {
			cfg.excludeExtensions[ext] = true
		}
	}
}

// WithExcludeContentTypes adds media types that are never compressed.
// Parameters such as charset are ignored when matching.
//
// Example:
//
//	compression.New(compression.WithExcludeContentTypes("image/jpeg", "image/png", "application/zip"))
func WithExcludeContentTypes(contentTypes ...string) Option {
	return func(cfg *config) {
		for _, ct := range contentTypes {
			cfg.excludeContentTypes[strings.ToLower(ct)] = true
		}
	}
}

// WithLogger sets the logger used for encoder failures.
// Failed responses are sent uncompressed. Default: slog.Default().
//
// Example:
//
//	compression.New(compression.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
