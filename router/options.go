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

package router

import (
	"log/slog"

	"rivaas.dev/kernel/config"
	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/router/matcher"
)

// WithMatcher replaces the default radix tree matcher.
func WithMatcher(m matcher.Matcher) Option {
	return func(r *Router) {
		r.matcher = m
	}
}

// WithResolver sets the resolver used to instantiate middleware and invoke handlers.
//
// Example:
//
//	c := container.New()
//	c.MustBind("UserController", newUserController)
//	r := router.MustNew(router.WithResolver(c))
func WithResolver(res container.Resolver) Option {
	return func(r *Router) {
		r.resolver = res
	}
}

// WithLogger sets the logger used for registration, freeze and dispatch errors.
// A nil logger falls back to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
//
// Example with logging:
//
//	handler := router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
//	    slog.Debug(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := router.MustNew(router.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithConfig applies a declarative configuration: global middleware,
// middleware groups and the bodies of the default 404, 405 and 500 responses.
// Empty default bodies keep the built-in text.
//
// Example:
//
//	cfg, err := config.Load("routing.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := router.MustNew(router.WithResolver(c), router.WithConfig(cfg))
func WithConfig(cfg *config.Config) Option {
	return func(r *Router) {
		if cfg == nil {
			return
		}
		r.middleware = append(r.middleware, cfg.Middleware...)
		for name, refs := range cfg.MiddlewareGroups {
			r.MiddlewareGroup(name).Add(refs...)
		}
		if cfg.Defaults.NotFoundBody != "" {
			r.notFoundBody = cfg.Defaults.NotFoundBody
		}
		if cfg.Defaults.MethodNotAllowedBody != "" {
			r.methodNotAllowedBody = cfg.Defaults.MethodNotAllowedBody
		}
		if cfg.Defaults.InternalErrorBody != "" {
			r.internalErrorBody = cfg.Defaults.InternalErrorBody
		}
	}
}
