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

package matcher

import (
	"fmt"
	"strings"

	"rivaas.dev/kernel/message"
)

const (
	defaultBloomSize      = 1000
	defaultBloomHashFuncs = 3

	// Below this many static paths a map lookup alone is as fast as the filter.
	bloomThreshold = 10
)

// edge is a per-segment child (linear scan, no map hashing in the hot path).
type edge struct {
	label string
	node  *node
}

// param is the single placeholder child of a node.
type param struct {
	key  string
	node *node
}

// node is a segment in a method tree.
//
//   - edges: static per-segment children
//   - param: at most one {name} child per node
//   - staticPaths: full-path table of placeholder-free patterns (root only)
type node struct {
	edges       []edge
	param       *param
	staticPaths map[string]*node

	leaf    bool
	id      int
	pattern string
}

func (n *node) findChild(segment string) *node {
	for i := range n.edges {
		if n.edges[i].label == segment {
			return n.edges[i].node
		}
	}
	return nil
}

func (n *node) findOrCreateChild(segment string) *node {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &node{}
	n.edges = append(n.edges, edge{label: segment, node: child})
	return child
}

// Tree is the default [Matcher]: one segment tree per HTTP method.
//
// Thread safety: Add must only be called during the configuration phase.
// After that the tree is never written and Match is safe for concurrent use
// without locking.
type Tree struct {
	roots   map[string]*node
	methods []string // registration order, used to build Allowed
	bloom   *bloomFilter
	statics int
}

// Option configures a Tree.
type Option func(*Tree)

// WithBloomFilter sets the bloom filter size in bits and the number of hash
// functions used for negative static lookups. Non-positive values are ignored.
func WithBloomFilter(size uint64, hashFuncs int) Option {
	return func(t *Tree) {
		if size == 0 || hashFuncs <= 0 {
			return
		}
		t.bloom = newBloomFilter(size, hashFuncs)
	}
}

// New creates an empty Tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		roots: make(map[string]*node),
		bloom: newBloomFilter(defaultBloomSize, defaultBloomHashFuncs),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ Matcher = (*Tree)(nil)

// Add registers pattern for method under id.
//
// Segments of the form {name} capture one path segment. A placeholder must
// span the whole segment and a name may appear only once per pattern.
func (t *Tree) Add(method, pattern string, id int) error {
	segments, dynamic, err := parsePattern(pattern)
	if err != nil {
		return err
	}

	root := t.roots[method]
	if root == nil {
		root = &node{staticPaths: make(map[string]*node)}
		t.roots[method] = root
		t.methods = append(t.methods, method)
	}

	if !dynamic {
		if _, exists := root.staticPaths[pattern]; exists {
			return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, pattern)
		}
		root.staticPaths[pattern] = &node{leaf: true, id: id, pattern: pattern}
		t.bloom.add(pattern)
		t.statics++
		return nil
	}

	current := root
	for _, seg := range segments {
		key, isParam := placeholder(seg)
		if !isParam {
			current = current.findOrCreateChild(seg)
			continue
		}
		if current.param == nil {
			current.param = &param{key: key, node: &node{}}
		} else if current.param.key != key {
			return fmt.Errorf("%w: %s %s uses {%s} where {%s} is registered",
				ErrParamConflict, method, pattern, key, current.param.key)
		}
		current = current.param.node
	}

	if current.leaf {
		return fmt.Errorf("%w: %s %s (conflicts with %s)", ErrDuplicateRoute, method, pattern, current.pattern)
	}
	current.leaf = true
	current.id = id
	current.pattern = pattern
	return nil
}

// Match looks up path under method. When method has no matching route, the
// trees of every other registered method are checked to tell NotFound apart
// from MethodNotAllowed.
func (t *Tree) Match(method, path string) Result {
	if root := t.roots[method]; root != nil {
		if n, params := t.lookup(root, path); n != nil {
			return Result{Status: Found, ID: n.id, Pattern: n.pattern, Params: params}
		}
	}

	var allowed []string
	for _, m := range t.methods {
		if m == method {
			continue
		}
		if n, _ := t.lookup(t.roots[m], path); n != nil {
			allowed = append(allowed, m)
		}
	}
	if len(allowed) > 0 {
		return Result{Status: MethodNotAllowed, Allowed: allowed}
	}
	return Result{Status: NotFound}
}

func (t *Tree) lookup(root *node, path string) (*node, []message.Param) {
	if t.statics < bloomThreshold || t.bloom.test(path) {
		if n, ok := root.staticPaths[path]; ok {
			return n, nil
		}
	}

	if !strings.HasPrefix(path, "/") {
		return nil, nil
	}
	segments := splitPath(path)
	var params []message.Param
	n := matchSegments(root, segments, &params)
	if n == nil {
		return nil, nil
	}
	return n, params
}

// matchSegments walks static edges before the placeholder child and
// backtracks when a static branch dead-ends.
func matchSegments(n *node, segments []string, params *[]message.Param) *node {
	if len(segments) == 0 {
		if n.leaf {
			return n
		}
		return nil
	}

	seg := segments[0]
	if child := n.findChild(seg); child != nil {
		if found := matchSegments(child, segments[1:], params); found != nil {
			return found
		}
	}

	if n.param != nil && seg != "" {
		mark := len(*params)
		*params = append(*params, message.Param{Key: n.param.key, Value: seg})
		if found := matchSegments(n.param.node, segments[1:], params); found != nil {
			return found
		}
		*params = (*params)[:mark]
	}
	return nil
}

// parsePattern splits pattern into segments and reports whether it contains
// placeholders.
func parsePattern(pattern string) ([]string, bool, error) {
	if !strings.Contains(pattern, "{") && !strings.Contains(pattern, "}") {
		return nil, false, nil
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, false, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, pattern)
	}

	segments := splitPath(pattern)
	seen := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		key, isParam := placeholder(seg)
		if !isParam {
			if strings.ContainsAny(seg, "{}") {
				return nil, false, fmt.Errorf("%w: %q: placeholder must span a whole segment", ErrInvalidPattern, pattern)
			}
			continue
		}
		if key == "" || strings.ContainsAny(key, "{}") {
			return nil, false, fmt.Errorf("%w: %q: bad placeholder %q", ErrInvalidPattern, pattern, seg)
		}
		if _, dup := seen[key]; dup {
			return nil, false, fmt.Errorf("%w: %q: placeholder {%s} used twice", ErrInvalidPattern, pattern, key)
		}
		seen[key] = struct{}{}
	}
	return segments, true, nil
}

func placeholder(seg string) (string, bool) {
	if len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

// splitPath splits "/a/b/" into ["a", "b", ""]. The root path yields no segments.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
