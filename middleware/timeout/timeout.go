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
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
)

// Option configures the timeout middleware.
type Option func(*config)

type config struct {
	duration     time.Duration
	logger       *slog.Logger
	handler      func(req *message.Request, timeout time.Duration) *message.Response
	skipPaths    map[string]bool
	skipPrefixes []string
	skipSuffixes []string
	skipFunc     func(req *message.Request) bool
}

func defaultConfig() *config {
	return &config{
		duration:  30 * time.Second,
		logger:    slog.Default(),
		handler:   defaultHandler,
		skipPaths: make(map[string]bool),
	}
}

// defaultHandler answers with a JSON 408.
func defaultHandler(req *message.Request, timeout time.Duration) *message.Response {
	body, _ := json.Marshal(map[string]string{
		"error":   "Request timeout",
		"code":    "TIMEOUT",
		"timeout": timeout.String(),
		"path":    req.Path(),
	})
	return message.NewResponse(http.StatusRequestTimeout).
		WithHeader("Content-Type", "application/json; charset=utf-8").
		WithBody(body)
}

func (cfg *config) skip(req *message.Request) bool {
	path := req.Path()
	if cfg.skipPaths[path] {
		return true
	}
	for _, prefix := range cfg.skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range cfg.skipSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return cfg.skipFunc != nil && cfg.skipFunc(req)
}

type result struct {
	res       *message.Response
	err       error
	panicked  bool
	recovered any
}

// New returns the timeout middleware.
//
// The rest of the pipeline runs in its own goroutine. Responses are values,
// so an abandoned goroutine cannot touch what was already returned; it only
// keeps running until it notices the canceled context.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return router.MiddlewareFunc(func(req *message.Request, next router.Handler) (*message.Response, error) {
		if cfg.skip(req) {
			return next.Handle(req)
		}

		ctx, cancel := context.WithTimeout(req.Context(), cfg.duration)
		defer cancel()
		req = req.WithContext(ctx)

		done := make(chan result, 1)
		go func() {
			r := result{panicked: true}
			defer func() {
				if r.panicked {
					r.recovered = recover()
				}
				done <- r
			}()
			r.res, r.err = next.Handle(req)
			r.panicked = false
		}()

		select {
		case r := <-done:
			if r.panicked {
				panic(r.recovered)
			}
			return r.res, r.err
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				// The client went away; nobody reads the answer.
				return nil, ctx.Err()
			}
			if cfg.logger != nil {
				cfg.logger.WarnContext(ctx, "request timeout",
					"method", req.Method(),
					"path", req.Path(),
					"pattern", req.Pattern(),
					"timeout", cfg.duration.String(),
				)
			}
			go cfg.drain(req, done)
			return cfg.handler(req, cfg.duration), nil
		}
	})
}

// drain waits for an abandoned pipeline and logs a late panic.
func (cfg *config) drain(req *message.Request, done <-chan result) {
	r := <-done
	if r.panicked && cfg.logger != nil {
		cfg.logger.Error("panic after request timeout",
			"method", req.Method(),
			"path", req.Path(),
			"panic", r.recovered,
		)
	}
}
