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
	"errors"

	"rivaas.dev/kernel/container"
)

var (
	// ErrUnresolvable indicates that a middleware or controller reference is unknown to the resolver.
	ErrUnresolvable = container.ErrUnresolvable

	// ErrNotController indicates that a handler reference resolved to something that is not a controller.
	ErrNotController = container.ErrNotController

	// ErrActionNotFound indicates that a controller has no action with the requested name.
	ErrActionNotFound = container.ErrActionNotFound

	// ErrNotMiddleware indicates that a middleware reference resolved to a value that does not implement Middleware.
	ErrNotMiddleware = errors.New("resolved value is not a middleware")

	// ErrMiddlewareGroupNotFound indicates that a referenced middleware group was never declared.
	ErrMiddlewareGroupNotFound = errors.New("middleware group not found")

	// ErrRouteNotFound indicates that a route id returned by the matcher is not in the registry.
	ErrRouteNotFound = errors.New("route not found")

	// ErrDuplicateRouteName indicates that two routes were given the same name.
	ErrDuplicateRouteName = errors.New("duplicate route name")

	// ErrMissingRouteParameter indicates that a parameter required to build a URL is missing.
	ErrMissingRouteParameter = errors.New("missing required parameter")

	// ErrRouterFrozen indicates an attempt to change the router after it was frozen.
	ErrRouterFrozen = errors.New("router is frozen")

	// ErrNilMatcher indicates that the router was configured with a nil matcher.
	ErrNilMatcher = errors.New("matcher cannot be nil")

	// ErrNilResolver indicates that the router was configured with a nil resolver.
	ErrNilResolver = errors.New("resolver cannot be nil")

	// ErrNilHandler indicates that a route was registered without a handler.
	ErrNilHandler = errors.New("handler cannot be nil")
)
