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

// Package container resolves middleware and controller references into live
// instances and invokes route handlers.
//
// The router never inspects how references are resolved; it talks to the
// [Resolver] interface only. [Container] is the default implementation: a
// registry of named factories whose results are cached as singletons.
//
// Example:
//
//	c := container.New()
//	c.Bind("users", func(*container.Container) (any, error) {
//	    return NewUserController(db), nil
//	})
//	c.Instance("auth", AuthMiddleware{})
package container

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"rivaas.dev/kernel/message"
)

var (
	// ErrUnresolvable indicates that no binding exists for a reference.
	ErrUnresolvable = errors.New("reference cannot be resolved")

	// ErrNotController indicates that a method target resolved to a value that is not a Controller.
	ErrNotController = errors.New("resolved target is not a controller")

	// ErrActionNotFound indicates that a controller has no action with the requested name.
	ErrActionNotFound = errors.New("controller action not found")

	// ErrUnsupportedTarget indicates a handler target of an unknown kind.
	ErrUnsupportedTarget = errors.New("unsupported handler target")

	// ErrNilFactory indicates that Bind was called with a nil factory.
	ErrNilFactory = errors.New("factory is nil")
)

// Resolver turns references into instances and invokes handler targets.
// Implementations must be safe for concurrent use once setup is complete.
type Resolver interface {
	// Resolve returns the instance bound to ref.
	Resolve(ref string) (any, error)

	// Invoke calls target with the request and the positional path arguments.
	Invoke(target Target, req *message.Request, args []string) (*message.Response, error)
}

// Factory builds the instance for a binding. It may resolve other references
// through the container it receives.
type Factory func(c *Container) (any, error)

// Container is the default Resolver.
//
// Factories run at most once per reference; the result is cached. The
// factory is called without holding the container lock so it may resolve
// its own dependencies.
type Container struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]any
}

// New creates an empty container.
func New() *Container {
	return &Container{
		factories: make(map[string]Factory),
		instances: make(map[string]any),
	}
}

// Bind registers a lazily built singleton under ref.
// A later Bind or Instance for the same ref replaces the earlier one.
func (c *Container) Bind(ref string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("%w: %q", ErrNilFactory, ref)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[ref] = factory
	delete(c.instances, ref)
	return nil
}

// MustBind is like Bind but panics on error.
func (c *Container) MustBind(ref string, factory Factory) {
	if err := c.Bind(ref, factory); err != nil {
		panic(fmt.Sprintf("container.MustBind: %v", err))
	}
}

// Instance registers an already built value under ref.
func (c *Container) Instance(ref string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.factories, ref)
	c.instances[ref] = v
}

// Has reports whether ref is bound.
func (c *Container) Has(ref string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.instances[ref]; ok {
		return true
	}
	_, ok := c.factories[ref]
	return ok
}

// Refs returns every bound reference in sorted order.
func (c *Container) Refs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	refs := make([]string, 0, len(c.instances)+len(c.factories))
	for ref := range c.instances {
		refs = append(refs, ref)
	}
	for ref := range c.factories {
		if _, built := c.instances[ref]; !built {
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	return refs
}

// Resolve returns the instance bound to ref, building it on first use.
func (c *Container) Resolve(ref string) (any, error) {
	c.mu.RLock()
	if inst, ok := c.instances[ref]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	factory, ok := c.factories[ref]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvable, ref)
	}

	inst, err := factory(c)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have built it first; keep a single instance.
	if existing, ok := c.instances[ref]; ok {
		return existing, nil
	}
	c.instances[ref] = inst
	return inst, nil
}

// Invoke calls target. Method targets are resolved to a Controller and the
// named action is looked up on it.
func (c *Container) Invoke(target Target, req *message.Request, args []string) (*message.Response, error) {
	fn, err := Callable(c, target)
	if err != nil {
		return nil, err
	}
	return fn(req, args...)
}

var _ Resolver = (*Container)(nil)
