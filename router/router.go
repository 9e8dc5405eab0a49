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
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/router/matcher"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns a logger that discards everything.
func NoopLogger() *slog.Logger {
	return noopLogger
}

const (
	defaultNotFoundBody         = "404 Not Found"
	defaultMethodNotAllowedBody = "405 Method Not Allowed"
	defaultInternalErrorBody    = "500 Internal Server Error"
)

// Router is the registry, middleware resolver and dispatcher.
//
// Thread safety:
// Routes, groups and middleware are configured during a single-threaded setup
// phase. The first call to Dispatch (or an explicit Freeze) ends that phase:
// middleware chains are resolved once, and from then on the registry is
// read-only and dispatch runs without locks. The custom not-found and
// method-not-allowed handlers may still be replaced at any time.
type Router struct {
	matcher     matcher.Matcher
	resolver    container.Resolver
	logger      *slog.Logger
	diagnostics DiagnosticHandler

	routes      []*Route
	namedRoutes map[string]*Route
	setupErrs   []error

	middleware       []string
	middlewareGroups map[string]*MiddlewareGroup

	handlerMu               sync.RWMutex // Protects the two custom handlers (rarely written, read per unmatched request)
	notFoundHandler         container.Target
	methodNotAllowedHandler container.Target

	notFoundBody         string
	methodNotAllowedBody string
	internalErrorBody    string

	frozen     atomic.Bool
	freezeOnce sync.Once
	freezeErr  error
	global     []Middleware // resolved global middleware, set by Freeze
	globalErr  error
}

// Option configures a Router.
type Option func(*Router)

// New creates a Router.
//
// Without options the router uses the default radix tree matcher, an empty
// container.Container as resolver and a no-op logger.
//
//	r, err := router.New(
//	    router.WithResolver(c),
//	    router.WithLogger(logger),
//	)
func New(opts ...Option) (*Router, error) {
	r := &Router{
		matcher:              matcher.New(),
		resolver:             container.New(),
		logger:               noopLogger,
		namedRoutes:          make(map[string]*Route),
		middlewareGroups:     make(map[string]*MiddlewareGroup),
		notFoundBody:         defaultNotFoundBody,
		methodNotAllowedBody: defaultMethodNotAllowedBody,
		internalErrorBody:    defaultInternalErrorBody,
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	return r, nil
}

// MustNew creates a Router and panics if the configuration is invalid.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

func (r *Router) validate() error {
	if r.matcher == nil {
		return ErrNilMatcher
	}
	if r.resolver == nil {
		return ErrNilResolver
	}
	if r.logger == nil {
		r.logger = noopLogger
	}
	return nil
}

// Resolver returns the resolver used for middleware and handler references.
func (r *Router) Resolver() container.Resolver {
	return r.resolver
}

// Use appends global middleware references. Global middleware runs first for
// every request, including synthetic OPTIONS, 404 and 405 responses.
func (r *Router) Use(names ...string) {
	r.mustNotBeFrozen("add global middleware")
	r.middleware = append(r.middleware, names...)
}

// Middleware returns a copy of the global middleware references.
func (r *Router) Middleware() []string {
	return append([]string(nil), r.middleware...)
}

// MiddlewareGroup returns the middleware group registered under name,
// declaring an empty one if it does not exist yet.
func (r *Router) MiddlewareGroup(name string) *MiddlewareGroup {
	if mg, ok := r.middlewareGroups[name]; ok {
		return mg
	}
	r.mustNotBeFrozen("declare middleware group " + name)
	mg := &MiddlewareGroup{name: name, router: r}
	r.middlewareGroups[name] = mg
	return mg
}

// SetNotFoundHandler replaces the default 404 response producer.
// The handler is invoked through the resolver with no arguments, and its
// response still passes through the global middleware.
func (r *Router) SetNotFoundHandler(h container.Target) {
	r.handlerMu.Lock()
	r.notFoundHandler = h
	r.handlerMu.Unlock()
}

// SetMethodNotAllowedHandler replaces the default 405 response producer.
// Use AllowedMethods inside the handler to read the methods the path supports.
func (r *Router) SetMethodNotAllowedHandler(h container.Target) {
	r.handlerMu.Lock()
	r.methodNotAllowedHandler = h
	r.handlerMu.Unlock()
}

func (r *Router) mustNotBeFrozen(action string) {
	if !r.frozen.Load() {
		return
	}
	r.emit(DiagFrozenMutation, "mutation rejected after freeze", map[string]any{"action": action})
	panic(fmt.Errorf("%w: cannot %s", ErrRouterFrozen, action))
}
