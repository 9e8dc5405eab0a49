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
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// Response is a value-like HTTP response.
//
// A Response is never modified in place: WithStatus, WithHeader, WithBody and
// the other With* methods return a new Response and leave the receiver as it
// was. Middleware can therefore post-process a response returned by the next
// link without affecting anyone else holding the original.
//
// Example:
//
//	res := message.NewResponse(http.StatusOK).
//	    WithHeader("Content-Type", "text/plain").
//	    WithBodyString("hello")
type Response struct {
	status int
	reason string
	header http.Header
	body   []byte
}

// NewResponse creates an empty response with the given status code.
// A zero status is treated as 200 OK.
func NewResponse(status int) *Response {
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{
		status: status,
		header: make(http.Header),
	}
}

// Text creates a response with a plain-text body.
func Text(status int, body string) *Response {
	return NewResponse(status).
		WithHeader("Content-Type", "text/plain; charset=utf-8").
		WithBodyString(body)
}

// Status returns the status code.
func (r *Response) Status() int {
	return r.status
}

// Reason returns the reason phrase. When none was set explicitly the
// standard text for the status code is returned.
func (r *Response) Reason() string {
	if r.reason != "" {
		return r.reason
	}
	return http.StatusText(r.status)
}

// Header returns a copy of the response headers.
func (r *Response) Header() http.Header {
	return r.header.Clone()
}

// HasHeader reports whether the header key is present.
func (r *Response) HasHeader(key string) bool {
	_, ok := r.header[http.CanonicalHeaderKey(key)]
	return ok
}

// HeaderLine returns all values of the header key joined by ", ".
func (r *Response) HeaderLine(key string) string {
	return strings.Join(r.header.Values(key), ", ")
}

// Body returns a copy of the response body.
func (r *Response) Body() []byte {
	return slices.Clone(r.body)
}

// BodyString returns the body as a string.
func (r *Response) BodyString() string {
	return string(r.body)
}

// Size returns the body length in bytes.
func (r *Response) Size() int {
	return len(r.body)
}

// WithStatus returns a copy with the status code and an optional reason phrase.
func (r *Response) WithStatus(code int, reason ...string) *Response {
	c := r.clone()
	c.status = code
	c.reason = ""
	if len(reason) > 0 {
		c.reason = reason[0]
	}
	return c
}

// WithHeader returns a copy with the header key replaced by values.
func (r *Response) WithHeader(key string, values ...string) *Response {
	c := r.clone()
	c.header.Del(key)
	for _, v := range values {
		c.header.Add(key, v)
	}
	return c
}

// WithAddedHeader returns a copy with value appended to the header key.
func (r *Response) WithAddedHeader(key, value string) *Response {
	c := r.clone()
	c.header.Add(key, value)
	return c
}

// WithoutHeader returns a copy without the header key.
func (r *Response) WithoutHeader(key string) *Response {
	c := r.clone()
	c.header.Del(key)
	return c
}

// WithBody returns a copy with the given body.
func (r *Response) WithBody(body []byte) *Response {
	c := r.clone()
	c.body = slices.Clone(body)
	return c
}

// WithBodyString returns a copy with the given string body.
func (r *Response) WithBodyString(body string) *Response {
	c := r.clone()
	c.body = []byte(body)
	return c
}

// WithoutBody returns a copy with an empty body. Headers and status are kept.
func (r *Response) WithoutBody() *Response {
	c := r.clone()
	c.body = nil
	return c
}

// Send writes the response to w.
// Content-Length is set from the body unless a handler already set it.
func (r *Response) Send(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range r.header {
		h[k] = slices.Clone(vs)
	}
	if h.Get("Content-Length") == "" && len(r.body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(r.body)))
	}
	w.WriteHeader(r.status)
	if len(r.body) == 0 {
		return nil
	}
	_, err := w.Write(r.body)
	return err
}

func (r *Response) clone() *Response {
	h := r.header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	// body is shared: it is only ever replaced, never written to.
	return &Response{
		status: r.status,
		reason: r.reason,
		header: h,
		body:   r.body,
	}
}
