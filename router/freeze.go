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
	"fmt"
)

// Freeze ends the setup phase.
//
// It resolves the global middleware and the middleware chain of every route,
// checks controller handlers and reports every configuration error found,
// joined with errors.Join. The router is frozen even when errors are
// returned: routes whose chain failed return their error from Dispatch while
// the others keep working. Further registration panics with ErrRouterFrozen.
//
// Freeze runs at most once; later calls return the first result. Dispatch
// calls it automatically.
func (r *Router) Freeze() error {
	r.freezeOnce.Do(r.doFreeze)
	return r.freezeErr
}

// Frozen reports whether the router has been frozen.
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}

func (r *Router) doFreeze() {
	errs := append([]error(nil), r.setupErrs...)

	global, err := r.instantiate(r.middleware)
	if err != nil {
		r.globalErr = fmt.Errorf("global middleware: %w", err)
		errs = append(errs, r.globalErr)
	}
	r.global = global

	for _, rt := range r.routes {
		rt.pipeline, rt.err = r.compileRoute(rt)
		if rt.err != nil {
			rt.err = fmt.Errorf("%s: %w", rt, rt.err)
			errs = append(errs, rt.err)
		}
	}

	r.freezeErr = errors.Join(errs...)
	r.frozen.Store(true)

	if r.freezeErr != nil {
		r.logger.Error("router configuration invalid", "error", r.freezeErr)
	}
	r.logger.Info("router frozen", "routes", len(r.routes), "middleware_groups", len(r.middlewareGroups))
	r.emit(DiagRouterFrozen, "router frozen", map[string]any{
		"routes": len(r.routes),
		"errors": len(errs),
	})
}

// Validate reports configuration errors without freezing the router:
// registration failures, unknown middleware groups, unresolvable middleware
// and controller handlers that cannot be invoked.
func (r *Router) Validate() error {
	errs := append([]error(nil), r.setupErrs...)
	if _, err := r.instantiate(r.middleware); err != nil {
		errs = append(errs, fmt.Errorf("global middleware: %w", err))
	}
	for _, rt := range r.routes {
		if _, err := r.compileRoute(rt); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rt, err))
		}
	}
	return errors.Join(errs...)
}
