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

package timeout

import (
	"log/slog"
	"time"

	"rivaas.dev/kernel/message"
)

// WithDuration sets the deadline. Non-positive values are ignored.
// Default: 30s.
func WithDuration(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.duration = d
		}
	}
}

// WithoutLogging disables the timeout warning.
func WithoutLogging() Option {
	return func(cfg *config) {
		cfg.logger = nil
	}
}

// WithLogger sets the logger for timeout events. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithHandler sets the function producing the response sent on timeout.
//
// Example:
//
//	timeout.WithHandler(func(req *message.Request, d time.Duration) *message.Response {
//	    return message.Text(http.StatusGatewayTimeout, "upstream too slow")
//	})
func WithHandler(handler func(req *message.Request, timeout time.Duration) *message.Response) Option {
	return func(cfg *config) {
		if handler != nil {
			cfg.handler = handler
		}
	}
}

// WithSkipPaths exempts exact paths from the deadline.
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.skipPaths[p] = true
		}
	}
}

// WithSkipPrefix exempts paths starting with one of prefixes.
func WithSkipPrefix(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.skipPrefixes = append(cfg.skipPrefixes, prefixes...)
	}
}

// WithSkipSuffix exempts paths ending with one of suffixes.
func WithSkipSuffix(suffixes ...string) Option {
	return func(cfg *config) {
		cfg.skipSuffixes = append(cfg.skipSuffixes, suffixes...)
	}
}

// WithSkip exempts requests for which fn returns true.
//
// Example:
//
//	timeout.WithSkip(func(req *message.Request) bool {
//	    return req.Header().Get("Upgrade") == "websocket"
//	})
func WithSkip(fn func(req *message.Request) bool) Option {
	return func(cfg *config) {
		cfg.skipFunc = fn
	}
}
