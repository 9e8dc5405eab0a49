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

package container

import (
	"fmt"

	"rivaas.dev/kernel/message"
)

// Target is a route handler. It is a closed variant with exactly two cases:
//   - [Func]: an inline function
//   - [Method]: a {reference, action} pair resolved through a Resolver
type Target interface {
	target()
}

// Func is an inline handler. args holds the path parameter values in the
// order their placeholders appear in the route pattern.
type Func func(req *message.Request, args ...string) (*message.Response, error)

func (Func) target() {}

// Method names an action on a controller bound in the container.
type Method struct {
	Ref    string // Container reference of the controller
	Action string // Action name passed to Controller.Action
}

func (Method) target() {}

// String returns "Ref@Action".
func (m Method) String() string {
	return m.Ref + "@" + m.Action
}

// Controller exposes named actions. Resolved method targets must implement it.
//
// Example:
//
//	func (d *DemoController) Action(name string) (container.Func, bool) {
//	    switch name {
//	    case "greet":
//	        return d.Greet, true
//	    }
//	    return nil, false
//	}
type Controller interface {
	Action(name string) (Func, bool)
}

// Callable turns target into a Func, resolving method targets through r.
// It is used both by Invoke and by eager wiring checks at setup time.
func Callable(r Resolver, target Target) (Func, error) {
	switch t := target.(type) {
	case Func:
		if t == nil {
			return nil, fmt.Errorf("%w: nil function", ErrUnsupportedTarget)
		}
		return t, nil
	case Method:
		inst, err := r.Resolve(t.Ref)
		if err != nil {
			return nil, err
		}
		ctrl, ok := inst.(Controller)
		if !ok {
			return nil, fmt.Errorf("%w: %q is %T", ErrNotController, t.Ref, inst)
		}
		fn, ok := ctrl.Action(t.Action)
		if !ok || fn == nil {
			return nil, fmt.Errorf("%w: %s", ErrActionNotFound, t)
		}
		return fn, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
}
