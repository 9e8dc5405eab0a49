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

package tracing

import (
	"fmt"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
)

// Middleware returns a router middleware that wraps everything after it in
// a server span. The span context is attached to the request passed on, so
// handlers and later middleware can create child spans or log trace IDs.
func (t *Tracer) Middleware() router.Middleware {
	return router.MiddlewareFunc(func(req *message.Request, next router.Handler) (*message.Response, error) {
		if t.excludePaths[req.Path()] {
			return next.Handle(req)
		}

		ctx, span := t.StartRequestSpan(req)
		var (
			status int
			err    error
		)
		defer func() {
			p := recover()
			if p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
			t.FinishRequestSpan(span, status, err)
			if p != nil {
				panic(p)
			}
		}()

		res, err := next.Handle(req.WithContext(ctx))
		if res != nil {
			status = res.Status()
		}
		return res, err
	})
}
