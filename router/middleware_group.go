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

// MiddlewareGroup is a named, ordered list of middleware references.
//
// Groups are late-bound: routes and groups refer to them by name, and the
// name is expanded from the group's contents when the middleware list is
// resolved. A group may therefore be declared or filled after the routes
// that use it.
type MiddlewareGroup struct {
	router     *Router
	name       string
	middleware []string
}

// Name returns the group name.
func (mg *MiddlewareGroup) Name() string {
	return mg.name
}

// Add appends middleware references. Duplicates are kept.
func (mg *MiddlewareGroup) Add(names ...string) *MiddlewareGroup {
	mg.router.mustNotBeFrozen("add middleware to middleware group " + mg.name)
	mg.middleware = append(mg.middleware, names...)
	return mg
}

// Middleware returns a copy of the group's middleware references.
func (mg *MiddlewareGroup) Middleware() []string {
	return append([]string(nil), mg.middleware...)
}
