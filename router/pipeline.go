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

import "rivaas.dev/kernel/message"

// Handler produces a response for a request.
type Handler interface {
	Handle(req *message.Request) (*message.Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req *message.Request) (*message.Response, error)

// Handle calls f(req).
func (f HandlerFunc) Handle(req *message.Request) (*message.Response, error) {
	return f(req)
}

// Middleware wraps the rest of a pipeline.
//
// A middleware may call next with the request (or a modified copy), return
// its own response without calling next, or post-process the response next
// returns. Errors returned by next should be passed back unchanged unless the
// middleware is meant to handle them.
type Middleware interface {
	Process(req *message.Request, next Handler) (*message.Response, error)
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(req *message.Request, next Handler) (*message.Response, error)

// Process calls f(req, next).
func (f MiddlewareFunc) Process(req *message.Request, next Handler) (*message.Response, error) {
	return f(req, next)
}

// Pipeline runs an ordered middleware list around a terminal handler.
// The first middleware is the outermost layer. A Pipeline holds no
// per-request state and may be run concurrently.
type Pipeline struct {
	middleware []Middleware
	handler    Handler
}

// NewPipeline creates a pipeline ending in handler.
func NewPipeline(handler Handler, middleware ...Middleware) *Pipeline {
	return &Pipeline{middleware: middleware, handler: handler}
}

// Handle runs the pipeline for req.
func (p *Pipeline) Handle(req *message.Request) (*message.Response, error) {
	return link{p: p}.Handle(req)
}

// link is the "next" handler passed to the middleware at index i.
type link struct {
	p *Pipeline
	i int
}

func (l link) Handle(req *message.Request) (*message.Response, error) {
	if l.i >= len(l.p.middleware) {
		return l.p.handler.Handle(req)
	}
	return l.p.middleware[l.i].Process(req, link{p: l.p, i: l.i + 1})
}
