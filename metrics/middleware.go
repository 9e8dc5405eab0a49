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

package metrics

import (
	"net/http"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
)

// MiddlewareOption configures [Recorder.Middleware].
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	filter *pathFilter
	err    error
}

// WithExcludePaths skips requests whose path equals one of paths.
func WithExcludePaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.filter.addPaths(paths...)
	}
}

// WithExcludePrefixes skips requests whose path starts with one of prefixes.
func WithExcludePrefixes(prefixes ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.filter.addPrefixes(prefixes...)
	}
}

// WithExcludePatterns skips requests whose path matches one of the regular
// expressions. An invalid expression makes [Recorder.Middleware] panic.
func WithExcludePatterns(patterns ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if err := c.filter.addPatterns(patterns...); err != nil && c.err == nil {
			c.err = err
		}
	}
}

// Middleware returns a router middleware measuring everything after it in
// the pipeline. Register it first in the global list to measure the whole
// dispatch, including the synthetic 404, 405 and OPTIONS responses.
func (r *Recorder) Middleware(opts ...MiddlewareOption) router.Middleware {
	cfg := &middlewareConfig{filter: newPathFilter()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		panic("metrics: " + cfg.err.Error())
	}

	return router.MiddlewareFunc(func(req *message.Request, next router.Handler) (*message.Response, error) {
		if cfg.filter.shouldExclude(req.Path()) {
			return next.Handle(req)
		}

		ctx := req.Context()
		m := r.Start(ctx, req.Method())
		status := 0
		defer func() {
			// A panic passing through counts as a 500 and keeps unwinding.
			p := recover()
			if p != nil {
				status = http.StatusInternalServerError
			}
			r.Finish(ctx, m, status, patternOf(req))
			if p != nil {
				panic(p)
			}
		}()

		res, err := next.Handle(req)
		if res != nil {
			status = res.Status()
		}
		status = statusOf(status, err)
		return res, err
	})
}

func patternOf(req *message.Request) string {
	if p := req.Pattern(); p != "" {
		return p
	}
	return "_unmatched"
}
