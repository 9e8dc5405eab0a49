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

package message

import (
	"context"
	"io"
	"net/http"
	"slices"
)

// Param is a single path parameter extracted by the matcher.
// Params keep the order in which their placeholders appear in the pattern.
type Param struct {
	Key   string
	Value string
}

// Request is the request seen by middleware and handlers.
//
// It wraps an *http.Request and adds routing data filled in by the dispatcher:
// the ordered path parameters, the matched route pattern and the route name.
// Every With* method returns a shallow copy; the receiver is never modified.
type Request struct {
	raw       *http.Request
	params    []Param
	pattern   string
	routeName string
}

// FromHTTP wraps an *http.Request.
func FromHTTP(r *http.Request) *Request {
	return &Request{raw: r}
}

// HTTP returns the underlying *http.Request.
func (r *Request) HTTP() *http.Request {
	return r.raw
}

// Method returns the HTTP method.
func (r *Request) Method() string {
	return r.raw.Method
}

// Path returns the URL path used for matching.
func (r *Request) Path() string {
	return r.raw.URL.Path
}

// Header returns the request headers.
func (r *Request) Header() http.Header {
	return r.raw.Header
}

// Body returns the request body stream.
func (r *Request) Body() io.ReadCloser {
	return r.raw.Body
}

// Context returns the request context.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// Param returns the value of the named path parameter, or "" when absent.
func (r *Request) Param(name string) string {
	for _, p := range r.params {
		if p.Key == name {
			return p.Value
		}
	}
	return ""
}

// Params returns a copy of the ordered path parameters.
func (r *Request) Params() []Param {
	return slices.Clone(r.params)
}

// Args returns the path parameter values in placeholder order.
// These are the positional arguments passed to route handlers.
func (r *Request) Args() []string {
	args := make([]string, len(r.params))
	for i, p := range r.params {
		args[i] = p.Value
	}
	return args
}

// Pattern returns the matched route pattern, or a sentinel such as
// "_not_found" when the request did not match a route.
func (r *Request) Pattern() string {
	return r.pattern
}

// RouteName returns the name of the matched route, if it has one.
func (r *Request) RouteName() string {
	return r.routeName
}

// WithContext returns a copy of r using ctx.
func (r *Request) WithContext(ctx context.Context) *Request {
	c := r.clone()
	c.raw = r.raw.WithContext(ctx)
	return c
}

// WithHeader returns a copy of r with the header key set to value.
// The underlying *http.Request is cloned so the original headers stay untouched.
func (r *Request) WithHeader(key, value string) *Request {
	c := r.clone()
	c.raw = r.raw.Clone(r.raw.Context())
	c.raw.Header.Set(key, value)
	return c
}

// WithParams returns a copy of r carrying the given path parameters.
func (r *Request) WithParams(params []Param) *Request {
	c := r.clone()
	c.params = slices.Clone(params)
	return c
}

// WithRoute returns a copy of r stamped with the matched pattern and route name.
func (r *Request) WithRoute(pattern, name string) *Request {
	c := r.clone()
	c.pattern = pattern
	c.routeName = name
	return c
}

func (r *Request) clone() *Request {
	c := *r
	return &c
}
