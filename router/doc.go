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

// Package router registers routes, composes middleware and dispatches
// requests through an onion pipeline.
//
// Routes are registered on a [Router] or inside a [Group]. Each route carries
// its own middleware references, references to named [MiddlewareGroup]s and
// the chain of groups it was registered in. At dispatch time the router asks
// its [matcher.Matcher] for the route, computes the middleware list and runs
// it around the route handler.
//
// Middleware order for a matched route:
//
//  1. global middleware, in declaration order
//  2. the route's own middleware
//  3. for each enclosing group, outer to inner, the group's own middleware
//  4. every referenced middleware group, expanded last: the route's own
//     group names first, then each enclosing group's, outer to inner
//
// Unmatched requests are answered by the router itself: OPTIONS requests get
// a 200 with an Allow header, HEAD requests fall back to the GET route with
// the body removed, and everything else gets a 404 or 405. These synthetic
// responses pass through the global middleware only.
//
// Basic usage:
//
//	c := container.New()
//	c.MustBind("auth", func(*container.Container) (any, error) { return authMiddleware, nil })
//
//	r := router.MustNew(router.WithResolver(c))
//	r.Use("auth")
//	r.Group("/api", func(g *router.Group) {
//	    g.GET("/users/{id}", container.Func(showUser))
//	})
//	http.ListenAndServe(":8080", r)
package router
