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

package recovery

import (
	"fmt"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
	"rivaas.dev/kernel/telemetry/semconv"
)

// PanicError carries a recovered panic value through an errors.Formatter.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// New returns the recovery middleware.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return router.MiddlewareFunc(func(req *message.Request, next router.Handler) (res *message.Response, err error) {
		defer func() {
			if v := recover(); v != nil {
				res, err = cfg.recovered(req, v), nil
			}
		}()

		res, err = next.Handle(req)
		if err != nil && cfg.errors {
			return cfg.caught(req, err), nil
		}
		return res, err
	})
}

func (cfg *config) recovered(req *message.Request, v any) *message.Response {
	span := trace.SpanFromContext(req.Context())
	span.SetAttributes(
		attribute.Bool(semconv.ExceptionEscaped, true),
		attribute.String(semconv.ExceptionType, fmt.Sprintf("%T", v)),
		attribute.String(semconv.ExceptionMessage, fmt.Sprint(v)),
	)
	span.SetStatus(codes.Error, "panic recovered")

	if cfg.logger != nil {
		args := []any{
			"error", v,
			"method", req.Method(),
			"path", req.Path(),
			"pattern", req.Pattern(),
		}
		if cfg.stackTrace {
			stack := debug.Stack()
			if cfg.stackSize > 0 && len(stack) > cfg.stackSize {
				stack = stack[:cfg.stackSize]
			}
			args = append(args, "stack", string(stack))
		}
		cfg.logger.ErrorContext(req.Context(), "panic recovered", args...)
	}

	if cfg.handler != nil {
		if res := cfg.handler(req, v); res != nil {
			return res
		}
	}
	return cfg.formatter.Format(req, &PanicError{Value: v})
}

func (cfg *config) caught(req *message.Request, err error) *message.Response {
	span := trace.SpanFromContext(req.Context())
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	res := cfg.formatter.Format(req, err)
	if cfg.logger != nil {
		cfg.logger.ErrorContext(req.Context(), "request failed",
			"error", err,
			"method", req.Method(),
			"path", req.Path(),
			"pattern", req.Pattern(),
			"status", res.Status(),
		)
	}
	return res
}
