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
	"net/http"

	"rivaas.dev/kernel/container"
)

// Route is a registered route.
//
// The group chain is captured once at registration and never recomputed.
// The groups themselves are referenced, not copied, so middleware added to a
// group after its setup callback returns still applies to its routes.
type Route struct {
	router *Router

	id               int
	method           string
	path             string
	handler          container.Target
	middleware       []string
	middlewareGroups []string
	chain            []*Group // outer to inner
	name             string

	// Set by Freeze.
	pipeline *Pipeline
	err      error
}

// ID returns the identifier the matcher reports for this route.
func (rt *Route) ID() int { return rt.id }

// Method returns the HTTP method.
func (rt *Route) Method() string { return rt.method }

// Path returns the fully qualified path pattern.
func (rt *Route) Path() string { return rt.path }

// Handler returns the route handler.
func (rt *Route) Handler() container.Target { return rt.handler }

// Name returns the route name, or "" for unnamed routes.
func (rt *Route) Name() string { return rt.name }

// Groups returns the group chain the route was registered in, outer to inner.
func (rt *Route) Groups() []*Group {
	return append([]*Group(nil), rt.chain...)
}

// OwnMiddleware returns the middleware references attached directly to the route.
func (rt *Route) OwnMiddleware() []string {
	return append([]string(nil), rt.middleware...)
}

// OwnMiddlewareGroups returns the middleware group names attached directly to the route.
func (rt *Route) OwnMiddlewareGroups() []string {
	return append([]string(nil), rt.middlewareGroups...)
}

// Middleware appends middleware references to the route. Duplicates are kept.
func (rt *Route) Middleware(names ...string) *Route {
	rt.router.mustNotBeFrozen("add middleware to " + rt.String())
	rt.middleware = append(rt.middleware, names...)
	return rt
}

// MiddlewareGroup attaches middleware groups by name. They are expanded after
// every directly attached middleware, using the groups' contents at
// resolution time.
func (rt *Route) MiddlewareGroup(names ...string) *Route {
	rt.router.mustNotBeFrozen("add middleware group to " + rt.String())
	rt.middlewareGroups = append(rt.middlewareGroups, names...)
	return rt
}

// SetName names the route for reverse routing. Names must be unique; a
// duplicate is reported by Freeze and Validate. An empty name leaves the
// route unnamed and drops any earlier name.
func (rt *Route) SetName(name string) *Route {
	rt.router.mustNotBeFrozen("name " + rt.String())
	if name == "" {
		if rt.name != "" && rt.router.namedRoutes[rt.name] == rt {
			delete(rt.router.namedRoutes, rt.name)
		}
		rt.name = ""
		return rt
	}
	if existing, ok := rt.router.namedRoutes[name]; ok && existing != rt {
		rt.router.setupErrs = append(rt.router.setupErrs,
			fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateRouteName, name, existing, rt))
		return rt
	}
	if rt.name != "" {
		delete(rt.router.namedRoutes, rt.name)
	}
	rt.name = name
	rt.router.namedRoutes[name] = rt
	return rt
}

// String returns "METHOD path".
func (rt *Route) String() string {
	return rt.method + " " + rt.path
}

// Handle registers a route for method and path.
func (r *Router) Handle(method, path string, h container.Target) *Route {
	return r.register(nil, method, path, h)
}

// GET registers a route for GET requests.
func (r *Router) GET(path string, h container.Target) *Route {
	return r.Handle(http.MethodGet, path, h)
}

// POST registers a route for POST requests.
func (r *Router) POST(path string, h container.Target) *Route {
	return r.Handle(http.MethodPost, path, h)
}

// PUT registers a route for PUT requests.
func (r *Router) PUT(path string, h container.Target) *Route {
	return r.Handle(http.MethodPut, path, h)
}

// DELETE registers a route for DELETE requests.
func (r *Router) DELETE(path string, h container.Target) *Route {
	return r.Handle(http.MethodDelete, path, h)
}

// PATCH registers a route for PATCH requests.
func (r *Router) PATCH(path string, h container.Target) *Route {
	return r.Handle(http.MethodPatch, path, h)
}

// HEAD registers a route for HEAD requests. It takes precedence over the
// automatic HEAD handling of the GET route.
func (r *Router) HEAD(path string, h container.Target) *Route {
	return r.Handle(http.MethodHead, path, h)
}

// OPTIONS registers a route for OPTIONS requests. It takes precedence over
// the automatic OPTIONS response.
func (r *Router) OPTIONS(path string, h container.Target) *Route {
	return r.Handle(http.MethodOptions, path, h)
}

// register builds the full path from the group chain ending in g, appends
// the route to the registry and forwards it to the matcher.
func (r *Router) register(g *Group, method, path string, h container.Target) *Route {
	r.mustNotBeFrozen("register " + method + " " + path)

	chain := g.chain()
	fullPath := path
	if g != nil {
		fullPath = g.FullPrefix() + path
	}

	rt := &Route{
		router:  r,
		id:      len(r.routes),
		method:  method,
		path:    fullPath,
		handler: h,
		chain:   chain,
	}
	r.routes = append(r.routes, rt)

	if err := r.matcher.Add(method, fullPath, rt.id); err != nil {
		r.setupErrs = append(r.setupErrs, fmt.Errorf("%s: %w", rt, err))
		r.logger.Error("route registration failed", "method", method, "path", fullPath, "error", err)
	}

	r.logger.Debug("route registered", "method", method, "path", fullPath, "id", rt.id)
	r.emit(DiagRouteRegistered, "route registered", map[string]any{
		"method": method,
		"path":   fullPath,
		"groups": len(chain),
	})
	return rt
}
