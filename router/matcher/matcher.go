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

// Package matcher maps (method, path) pairs to registered route identifiers.
//
// The [Matcher] interface is the contract the router depends on. [Tree] is the
// default implementation: one segment tree per HTTP method, with static
// patterns kept in a full-path table guarded by a bloom filter and
// placeholders written as {name}.
//
//	t := matcher.New()
//	_ = t.Add(http.MethodGet, "/users/{id}", 7)
//	res := t.Match(http.MethodGet, "/users/42")
//	// res.Status == matcher.Found, res.ID == 7, res.Params == [{id 42}]
package matcher

import (
	"errors"

	"rivaas.dev/kernel/message"
)

var (
	// ErrInvalidPattern indicates a malformed route pattern.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrDuplicateRoute indicates that the method and pattern are already registered.
	ErrDuplicateRoute = errors.New("route already registered")

	// ErrParamConflict indicates two patterns use different placeholder names at the same position.
	ErrParamConflict = errors.New("conflicting parameter names")
)

// Status is the outcome of a match.
type Status int

const (
	// NotFound means no route matches the path for any method.
	NotFound Status = iota
	// Found means a route matches the method and path.
	Found
	// MethodNotAllowed means the path matches routes of other methods only.
	MethodNotAllowed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case NotFound:
		return "not_found"
	case Found:
		return "found"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "unknown"
	}
}

// Result is returned by Match.
type Result struct {
	Status Status

	// Set when Status is Found.
	ID      int
	Pattern string
	Params  []message.Param

	// Set when Status is MethodNotAllowed: every method whose routes match the path.
	Allowed []string
}

// Matcher compiles route patterns during setup and matches request paths.
//
// Add is only called during the single-threaded setup phase. Match must be
// safe for concurrent use once setup is complete.
type Matcher interface {
	Add(method, pattern string, id int) error
	Match(method, path string) Result
}
