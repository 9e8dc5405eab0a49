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

	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/message"
)

// MiddlewareFor returns the ordered middleware references for rt.
//
// Global middleware comes first, then the route's own middleware, then the
// own middleware of each enclosing group from outer to inner. Middleware
// group names are collected along the way (the route's first, then each
// group's) and expanded last, from the groups' current contents. An unknown
// group name yields ErrMiddlewareGroupNotFound.
func (r *Router) MiddlewareFor(rt *Route) ([]string, error) {
	refs := make([]string, 0, len(r.middleware)+len(rt.middleware))
	refs = append(refs, r.middleware...)
	refs = append(refs, rt.middleware...)

	pending := append([]string(nil), rt.middlewareGroups...)
	for _, g := range rt.chain {
		refs = append(refs, g.middleware...)
		pending = append(pending, g.middlewareGroups...)
	}

	for _, name := range pending {
		mg, ok := r.middlewareGroups[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMiddlewareGroupNotFound, name)
		}
		refs = append(refs, mg.middleware...)
	}
	return refs, nil
}

// instantiate resolves middleware references to instances.
func (r *Router) instantiate(refs []string) ([]Middleware, error) {
	mws := make([]Middleware, 0, len(refs))
	for _, ref := range refs {
		v, err := r.resolver.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("middleware %q: %w", ref, err)
		}
		mw, ok := v.(Middleware)
		if !ok {
			return nil, fmt.Errorf("%w: %q resolved to %T", ErrNotMiddleware, ref, v)
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

// compileRoute resolves the middleware and checks the handler of rt.
func (r *Router) compileRoute(rt *Route) (*Pipeline, error) {
	refs, err := r.MiddlewareFor(rt)
	if err != nil {
		return nil, err
	}
	mws, err := r.instantiate(refs)
	if err != nil {
		return nil, err
	}
	if err := r.checkTarget(rt.handler); err != nil {
		return nil, err
	}
	return NewPipeline(r.terminal(rt), mws...), nil
}

// checkTarget verifies that a handler can be invoked. Controller methods are
// resolved through the resolver so that unknown references or actions fail
// at setup rather than on the first request.
func (r *Router) checkTarget(t container.Target) error {
	if t == nil {
		return ErrNilHandler
	}
	switch h := t.(type) {
	case container.Func:
		if h == nil {
			return ErrNilHandler
		}
		return nil
	case container.Method:
	default:
		return nil
	}
	_, err := container.Callable(r.resolver, t)
	return err
}

// terminal returns the innermost handler of a route pipeline: it invokes the
// route handler with the positional path parameters.
func (r *Router) terminal(rt *Route) Handler {
	return HandlerFunc(func(req *message.Request) (*message.Response, error) {
		return r.resolver.Invoke(rt.handler, req, req.Args())
	})
}
