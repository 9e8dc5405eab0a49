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
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/message"
)

// text returns a handler answering 200 with body.
func text(body string) container.Func {
	return func(*message.Request, ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, body), nil
	}
}

// echoArgs returns a handler answering with its positional arguments.
func echoArgs() container.Func {
	return func(_ *message.Request, args ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, strings.Join(args, ",")), nil
	}
}

func newRequest(method, target string) *message.Request {
	return message.FromHTTP(httptest.NewRequest(method, target, nil))
}

// recorder records the order in which middleware is entered.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (rec *recorder) mw(tag string) MiddlewareFunc {
	return func(req *message.Request, next Handler) (*message.Response, error) {
		rec.mu.Lock()
		rec.calls = append(rec.calls, tag)
		rec.mu.Unlock()
		return next.Handle(req)
	}
}

func (rec *recorder) order() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]string(nil), rec.calls...)
}

// headerMiddleware adds a response header after the rest of the pipeline ran.
func headerMiddleware(key, value string) MiddlewareFunc {
	return func(req *message.Request, next Handler) (*message.Response, error) {
		res, err := next.Handle(req)
		if err != nil {
			return nil, err
		}
		return res.WithHeader(key, value), nil
	}
}

// newTestRouter returns a router backed by a fresh container and a recorder
// whose middleware is bound under each tag.
func newTestRouter(tags ...string) (*Router, *container.Container, *recorder) {
	c := container.New()
	rec := &recorder{}
	for _, tag := range tags {
		c.Instance(tag, rec.mw(tag))
	}
	return MustNew(WithResolver(c)), c, rec
}

type userController struct{}

func (userController) Action(name string) (container.Func, bool) {
	switch name {
	case "show":
		return func(_ *message.Request, args ...string) (*message.Response, error) {
			return message.Text(http.StatusOK, "user "+args[0]), nil
		}, true
	}
	return nil, false
}
