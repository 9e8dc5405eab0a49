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
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router/matcher"
)

// Pattern sentinels stamped on requests that did not match a route, so that
// metrics and logs keep a bounded set of labels.
const (
	PatternNotFound         = "_not_found"
	PatternMethodNotAllowed = "_method_not_allowed"
	PatternOptions          = "_options"
	PatternInternalError    = "_internal_error"
)

// standardMethods are re-checked when an OPTIONS request matches nothing.
var standardMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodHead,
}

type allowedKey struct{}

// AllowedMethods returns the methods registered for the path of a request
// answered with 405 Method Not Allowed. It is meant for custom
// method-not-allowed handlers and returns nil elsewhere.
func AllowedMethods(req *message.Request) []string {
	allowed, _ := req.Context().Value(allowedKey{}).([]string)
	return slices.Clone(allowed)
}

// Dispatch routes req and returns the response.
//
// Unmatched requests are not errors: they are answered with 404, 405 or an
// automatic OPTIONS response. Errors are configuration errors (unknown
// middleware, controller or middleware group) or errors returned by
// middleware and handlers, passed through unchanged.
func (r *Router) Dispatch(req *message.Request) (*message.Response, error) {
	_ = r.Freeze() // logged by doFreeze; per-route errors surface below

	method, path := req.Method(), req.Path()
	res := r.matcher.Match(method, path)

	if method == http.MethodHead && res.Status != matcher.Found {
		if get := r.matcher.Match(http.MethodGet, path); get.Status == matcher.Found {
			return r.dispatchHead(req, get)
		}
	}

	switch res.Status {
	case matcher.Found:
		rt, err := r.Route(method, res.ID)
		if err != nil {
			return nil, err
		}
		return r.serveRoute(req, rt, res.Params)

	case matcher.NotFound:
		if method == http.MethodOptions {
			if allowed := r.allowedFor(path); len(allowed) > 0 {
				return r.serveOptions(req, allowed)
			}
		}
		return r.serveNotFound(req)

	case matcher.MethodNotAllowed:
		if method == http.MethodOptions {
			return r.serveOptions(req, res.Allowed)
		}
		return r.serveMethodNotAllowed(req, res.Allowed)

	default:
		return r.serveGlobal(req.WithRoute(PatternInternalError, ""), HandlerFunc(func(*message.Request) (*message.Response, error) {
			return message.Text(http.StatusInternalServerError, r.internalErrorBody), nil
		}))
	}
}

// Route returns the route registered under id for method.
func (r *Router) Route(method string, id int) (*Route, error) {
	if id < 0 || id >= len(r.routes) {
		return nil, fmt.Errorf("%w: %s #%d", ErrRouteNotFound, method, id)
	}
	rt := r.routes[id]
	if rt.method != method {
		return nil, fmt.Errorf("%w: #%d is %s, not %s", ErrRouteNotFound, id, rt, method)
	}
	return rt, nil
}

func (r *Router) serveRoute(req *message.Request, rt *Route, params []message.Param) (*message.Response, error) {
	if rt.err != nil {
		return nil, rt.err
	}
	req = req.WithParams(params).WithRoute(rt.path, rt.name)
	return rt.pipeline.Handle(req)
}

// dispatchHead runs the GET route and strips the body of its response.
func (r *Router) dispatchHead(req *message.Request, get matcher.Result) (*message.Response, error) {
	rt, err := r.Route(http.MethodGet, get.ID)
	if err != nil {
		return nil, err
	}
	r.emit(DiagAutoHead, "HEAD served by GET route", map[string]any{"path": rt.path})

	res, err := r.serveRoute(req, rt, get.Params)
	if err != nil || res == nil {
		return res, err
	}
	return res.WithoutBody(), nil
}

// allowedFor returns the standard methods that have a route for path.
func (r *Router) allowedFor(path string) []string {
	var allowed []string
	for _, m := range standardMethods {
		if r.matcher.Match(m, path).Status == matcher.Found {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

func (r *Router) serveOptions(req *message.Request, allowed []string) (*message.Response, error) {
	allow := AllowHeader(allowed)
	r.emit(DiagAutoOptions, "automatic OPTIONS response", map[string]any{"path": req.Path(), "allow": allow})
	return r.serveGlobal(req.WithRoute(PatternOptions, ""), HandlerFunc(func(*message.Request) (*message.Response, error) {
		return message.NewResponse(http.StatusOK).WithHeader("Allow", allow), nil
	}))
}

func (r *Router) serveNotFound(req *message.Request) (*message.Response, error) {
	r.handlerMu.RLock()
	custom := r.notFoundHandler
	r.handlerMu.RUnlock()

	return r.serveGlobal(req.WithRoute(PatternNotFound, ""), r.producer(custom, func() *message.Response {
		return message.Text(http.StatusNotFound, r.notFoundBody)
	}))
}

func (r *Router) serveMethodNotAllowed(req *message.Request, allowed []string) (*message.Response, error) {
	r.handlerMu.RLock()
	custom := r.methodNotAllowedHandler
	r.handlerMu.RUnlock()

	req = req.WithContext(context.WithValue(req.Context(), allowedKey{}, slices.Clone(allowed)))
	allow := AllowHeader(allowed)
	return r.serveGlobal(req.WithRoute(PatternMethodNotAllowed, ""), r.producer(custom, func() *message.Response {
		return message.Text(http.StatusMethodNotAllowed, r.methodNotAllowedBody).WithHeader("Allow", allow)
	}))
}

// producer returns the custom handler when one is set and the default
// response otherwise.
func (r *Router) producer(custom container.Target, def func() *message.Response) Handler {
	if custom != nil {
		return HandlerFunc(func(req *message.Request) (*message.Response, error) {
			return r.resolver.Invoke(custom, req, nil)
		})
	}
	return HandlerFunc(func(*message.Request) (*message.Response, error) {
		return def(), nil
	})
}

// serveGlobal runs h behind the global middleware only.
func (r *Router) serveGlobal(req *message.Request, h Handler) (*message.Response, error) {
	if r.globalErr != nil {
		return nil, r.globalErr
	}
	return NewPipeline(h, r.global...).Handle(req)
}

// AllowHeader builds an Allow header value: the allowed methods, HEAD when
// GET is allowed, and OPTIONS, without duplicates, joined by ", ".
func AllowHeader(allowed []string) string {
	set := make([]string, 0, len(allowed)+2)
	add := func(m string) {
		if !slices.Contains(set, m) {
			set = append(set, m)
		}
	}
	for _, m := range allowed {
		add(m)
	}
	if slices.Contains(set, http.MethodGet) {
		add(http.MethodHead)
	}
	add(http.MethodOptions)
	return strings.Join(set, ", ")
}
