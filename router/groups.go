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
	"net/http"
	"strings"

	"rivaas.dev/kernel/container"
)

// Group is a registration context: a path prefix plus middleware shared by
// the routes registered inside it.
//
// A Group knows its parent, so the enclosing chain is structural. There is
// no router-wide group stack, and a panic inside a setup callback cannot
// leave a stale prefix behind.
type Group struct {
	router           *Router
	parent           *Group
	prefix           string
	middleware       []string
	middlewareGroups []string
}

// Group creates a group with prefix and calls setup with it synchronously.
// The returned group can still receive middleware after setup returns.
//
// Example:
//
//	r.Group("/api", func(api *router.Group) {
//	    api.GET("/users", listUsers)
//	    api.Group("/admin", func(admin *router.Group) {
//	        admin.GET("/stats", stats) // GET /api/admin/stats
//	    }).Middleware("admin")
//	}).MiddlewareGroup("web")
func (r *Router) Group(prefix string, setup func(*Group)) *Group {
	return r.newGroup(nil, prefix, setup)
}

// Group creates a nested group. Prefixes are joined by plain concatenation.
func (g *Group) Group(prefix string, setup func(*Group)) *Group {
	return g.router.newGroup(g, prefix, setup)
}

func (r *Router) newGroup(parent *Group, prefix string, setup func(*Group)) *Group {
	r.mustNotBeFrozen("create group " + prefix)
	g := &Group{router: r, parent: parent, prefix: prefix}
	if setup != nil {
		setup(g)
	}
	return g
}

// Prefix returns the group's own prefix.
func (g *Group) Prefix() string {
	return g.prefix
}

// FullPrefix returns the concatenated prefixes of the chain ending in g.
func (g *Group) FullPrefix() string {
	chain := g.chain()
	var sb strings.Builder
	for _, grp := range chain {
		sb.WriteString(grp.prefix)
	}
	return sb.String()
}

// Middleware appends middleware references to the group.
func (g *Group) Middleware(names ...string) *Group {
	g.router.mustNotBeFrozen("add middleware to group " + g.prefix)
	g.middleware = append(g.middleware, names...)
	return g
}

// MiddlewareGroup attaches middleware groups by name.
func (g *Group) MiddlewareGroup(names ...string) *Group {
	g.router.mustNotBeFrozen("add middleware group to group " + g.prefix)
	g.middlewareGroups = append(g.middlewareGroups, names...)
	return g
}

// OwnMiddleware returns a copy of the group's own middleware references.
func (g *Group) OwnMiddleware() []string {
	return append([]string(nil), g.middleware...)
}

// OwnMiddlewareGroups returns a copy of the group's own middleware group names.
func (g *Group) OwnMiddlewareGroups() []string {
	return append([]string(nil), g.middlewareGroups...)
}

// chain returns the groups from the outermost ancestor down to g.
// A nil group has an empty chain.
func (g *Group) chain() []*Group {
	var chain []*Group
	for cur := g; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Handle registers a route under the group's prefix.
func (g *Group) Handle(method, path string, h container.Target) *Route {
	return g.router.register(g, method, path, h)
}

// GET registers a GET route under the group's prefix.
func (g *Group) GET(path string, h container.Target) *Route {
	return g.Handle(http.MethodGet, path, h)
}

// POST registers a POST route under the group's prefix.
func (g *Group) POST(path string, h container.Target) *Route {
	return g.Handle(http.MethodPost, path, h)
}

// PUT registers a PUT route under the group's prefix.
func (g *Group) PUT(path string, h container.Target) *Route {
	return g.Handle(http.MethodPut, path, h)
}

// DELETE registers a DELETE route under the group's prefix.
func (g *Group) DELETE(path string, h container.Target) *Route {
	return g.Handle(http.MethodDelete, path, h)
}

// PATCH registers a PATCH route under the group's prefix.
func (g *Group) PATCH(path string, h container.Target) *Route {
	return g.Handle(http.MethodPatch, path, h)
}

// HEAD registers a HEAD route under the group's prefix.
func (g *Group) HEAD(path string, h container.Target) *Route {
	return g.Handle(http.MethodHead, path, h)
}

// OPTIONS registers an OPTIONS route under the group's prefix.
func (g *Group) OPTIONS(path string, h container.Target) *Route {
	return g.Handle(http.MethodOptions, path, h)
}
