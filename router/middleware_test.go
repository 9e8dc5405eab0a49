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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/message"
)

// MiddlewareOrderSuite checks the order in which middleware runs.
type MiddlewareOrderSuite struct {
	suite.Suite

	router *Router
	rec    *recorder
}

func (s *MiddlewareOrderSuite) SetupTest() {
	s.router, _, s.rec = newTestRouter("global", "route", "outer", "inner", "a", "b", "c", "late")
}

func (s *MiddlewareOrderSuite) dispatch(method, target string) *message.Response {
	res, err := s.router.Dispatch(newRequest(method, target))
	s.Require().NoError(err)
	return res
}

func (s *MiddlewareOrderSuite) TestDirectMiddlewareBeforeGroupExpansions() {
	s.router.Use("global")
	s.router.MiddlewareGroup("gA").Add("a")
	s.router.MiddlewareGroup("gB").Add("b")
	s.router.MiddlewareGroup("gC").Add("c")

	s.router.Group("/outer", func(outer *Group) {
		outer.Group("/inner", func(inner *Group) {
			inner.GET("/x", text("ok")).Middleware("route").MiddlewareGroup("gC")
		}).Middleware("inner").MiddlewareGroup("gB")
	}).Middleware("outer").MiddlewareGroup("gA")

	res := s.dispatch(http.MethodGet, "/outer/inner/x")
	s.Equal("ok", res.BodyString())
	s.Equal([]string{"global", "route", "outer", "inner", "c", "a", "b"}, s.rec.order())
}

func (s *MiddlewareOrderSuite) TestMiddlewareForMatchesExecution() {
	s.router.Use("global")
	s.router.MiddlewareGroup("gA").Add("a", "b")
	var rt *Route
	s.router.Group("/g", func(g *Group) {
		g.Middleware("outer").MiddlewareGroup("gA")
		rt = g.GET("/x", text("ok")).Middleware("route", "route")
	})

	refs, err := s.router.MiddlewareFor(rt)
	s.Require().NoError(err)
	s.Equal([]string{"global", "route", "route", "outer", "a", "b"}, refs)

	s.dispatch(http.MethodGet, "/g/x")
	s.Equal(refs, s.rec.order())
}

func (s *MiddlewareOrderSuite) TestMiddlewareGroupIsLateBound() {
	s.router.GET("/x", text("ok")).MiddlewareGroup("later")
	s.router.MiddlewareGroup("later").Add("late")

	s.dispatch(http.MethodGet, "/x")
	s.Equal([]string{"late"}, s.rec.order())
}

func (s *MiddlewareOrderSuite) TestGroupMiddlewareAddedAfterSetupApplies() {
	g := s.router.Group("/g", func(g *Group) {
		g.GET("/x", text("ok"))
	})
	g.Middleware("outer")

	s.dispatch(http.MethodGet, "/g/x")
	s.Equal([]string{"outer"}, s.rec.order())
}

func (s *MiddlewareOrderSuite) TestGroupMiddlewareDoesNotLeak() {
	s.router.Group("/g", func(g *Group) {
		g.Middleware("outer")
		g.GET("/in", text("in"))
	})
	s.router.GET("/out", text("out"))

	s.dispatch(http.MethodGet, "/out")
	s.Empty(s.rec.order())
}

func (s *MiddlewareOrderSuite) TestSyntheticResponsesUseGlobalMiddlewareOnly() {
	s.router.Use("global")
	s.router.Group("/g", func(g *Group) {
		g.Middleware("outer")
		g.POST("/x", text("ok")).Middleware("route")
	})

	res := s.dispatch(http.MethodGet, "/g/x")
	s.Equal(http.StatusMethodNotAllowed, res.Status())
	res = s.dispatch(http.MethodOptions, "/g/x")
	s.Equal(http.StatusOK, res.Status())
	res = s.dispatch(http.MethodGet, "/missing")
	s.Equal(http.StatusNotFound, res.Status())

	s.Equal([]string{"global", "global", "global"}, s.rec.order())
}

func TestMiddlewareOrderSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(MiddlewareOrderSuite))
}

func TestMiddleware_ShortCircuit(t *testing.T) {
	t.Parallel()

	r, c, _ := newTestRouter()
	c.Instance("deny", MiddlewareFunc(func(*message.Request, Handler) (*message.Response, error) {
		return message.Text(http.StatusForbidden, "denied"), nil
	}))
	called := false
	r.GET("/secret", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		called = true
		return message.Text(http.StatusOK, "secret"), nil
	})).Middleware("deny")

	res, err := r.Dispatch(newRequest(http.MethodGet, "/secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, res.Status())
	assert.Equal(t, "denied", res.BodyString())
	assert.False(t, called)
}

func TestMiddleware_ModifiesRequestAndResponse(t *testing.T) {
	t.Parallel()

	r, c, _ := newTestRouter()
	c.Instance("tag", MiddlewareFunc(func(req *message.Request, next Handler) (*message.Response, error) {
		res, err := next.Handle(req.WithHeader("X-Tag", "tagged"))
		if err != nil {
			return nil, err
		}
		return res.WithHeader("X-Post", "done"), nil
	}))
	r.GET("/", container.Func(func(req *message.Request, _ ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, req.Header().Get("X-Tag")), nil
	})).Middleware("tag")

	res, err := r.Dispatch(newRequest(http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, "tagged", res.BodyString())
	assert.Equal(t, "done", res.HeaderLine("X-Post"))
}

func TestMiddleware_ErrorsPropagateUnchanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r, c, rec := newTestRouter("global")
	r.Use("global")
	c.Instance("post", headerMiddleware("X-Never", "1"))
	r.GET("/", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		return nil, boom
	})).Middleware("post")

	res, err := r.Dispatch(newRequest(http.MethodGet, "/"))
	assert.Nil(t, res)
	assert.Same(t, boom, err)
	assert.Equal(t, []string{"global"}, rec.order())
}

func TestMiddleware_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(r *Router)
		wantErr error
	}{
		{
			name:    "unknown middleware group",
			setup:   func(r *Router) { r.GET("/x", text("x")).MiddlewareGroup("nope") },
			wantErr: ErrMiddlewareGroupNotFound,
		},
		{
			name:    "unresolvable middleware",
			setup:   func(r *Router) { r.GET("/x", text("x")).Middleware("missing") },
			wantErr: ErrUnresolvable,
		},
		{
			name:    "value is not middleware",
			setup:   func(r *Router) { r.GET("/x", text("x")).Middleware("number") },
			wantErr: ErrNotMiddleware,
		},
		{
			name:    "unknown controller",
			setup:   func(r *Router) { r.GET("/x", container.Method{Ref: "Nope", Action: "show"}) },
			wantErr: ErrUnresolvable,
		},
		{
			name:    "unknown action",
			setup:   func(r *Router) { r.GET("/x", container.Method{Ref: "users", Action: "delete"}) },
			wantErr: ErrActionNotFound,
		},
		{
			name:    "not a controller",
			setup:   func(r *Router) { r.GET("/x", container.Method{Ref: "number", Action: "show"}) },
			wantErr: ErrNotController,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, c, _ := newTestRouter()
			c.Instance("number", 42)
			c.Instance("users", userController{})
			tt.setup(r)
			r.GET("/healthy", text("fine"))

			require.ErrorIs(t, r.Validate(), tt.wantErr)
			assert.False(t, r.Frozen())

			_, err := r.Dispatch(newRequest(http.MethodGet, "/x"))
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, r.Freeze(), tt.wantErr)

			res, err := r.Dispatch(newRequest(http.MethodGet, "/healthy"))
			require.NoError(t, err)
			assert.Equal(t, "fine", res.BodyString())
		})
	}
}

func TestMiddleware_GlobalConfigurationErrorFailsEveryRequest(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter()
	r.Use("missing")
	r.GET("/x", text("x"))

	_, err := r.Dispatch(newRequest(http.MethodGet, "/x"))
	require.ErrorIs(t, err, ErrUnresolvable)
	_, err = r.Dispatch(newRequest(http.MethodGet, "/unknown"))
	require.ErrorIs(t, err, ErrUnresolvable)
}

func TestPipeline_RunsInOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	p := NewPipeline(HandlerFunc(func(*message.Request) (*message.Response, error) {
		return message.Text(http.StatusOK, "end"), nil
	}), rec.mw("1"), rec.mw("2"), rec.mw("3"))

	res, err := p.Handle(newRequest(http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, "end", res.BodyString())
	assert.Equal(t, []string{"1", "2", "3"}, rec.order())
}
