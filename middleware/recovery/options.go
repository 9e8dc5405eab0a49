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

package recovery

import (
	"log/slog"

	kerrors "rivaas.dev/kernel/errors"
	"rivaas.dev/kernel/message"
)

// Option configures the recovery middleware.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	formatter  kerrors.Formatter
	handler    func(req *message.Request, recovered any) *message.Response
	stackTrace bool
	stackSize  int
	errors     bool
}

func defaultConfig() *config {
	return &config{
		logger:     slog.Default(),
		formatter:  kerrors.NewPlainText(),
		stackTrace: true,
		stackSize:  4 << 10,
		errors:     true,
	}
}

// WithLogger sets the logger for recovered panics and caught errors.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithoutLogging disables logging.
func WithoutLogging() Option {
	return func(cfg *config) {
		cfg.logger = nil
	}
}

// WithFormatter sets the formatter turning a caught error or panic into a
// response.
func WithFormatter(f kerrors.Formatter) Option {
	return func(cfg *config) {
		if f != nil {
			cfg.formatter = f
		}
	}
}

// WithHandler builds the response for recovered panics itself. The
// formatter still answers returned errors.
//
// Example:
//
//	recovery.New(recovery.WithHandler(func(req *message.Request, v any) *message.Response {
//	    return message.Text(http.StatusInternalServerError, "try again later")
//	}))
func WithHandler(handler func(req *message.Request, recovered any) *message.Response) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}

// WithStackTrace enables or disables stack trace capture. Default: true.
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize sets the maximum stack trace size in bytes. Default: 4KB.
func WithStackSize(size int) Option {
	return func(cfg *config) {
		cfg.stackSize = size
	}
}

// WithErrors controls whether errors returned by the rest of the pipeline
// are turned into responses too. Default: true. With false, only panics are
// handled and errors pass through unchanged.
func WithErrors(enabled bool) Option {
	return func(cfg *config) {
		cfg.errors = enabled
	}
}
