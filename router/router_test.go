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
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/kernel/config"
	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/message"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(WithMatcher(nil))
	require.ErrorIs(t, err, ErrNilMatcher)

	_, err = New(WithResolver(nil))
	require.ErrorIs(t, err, ErrNilResolver)

	assert.Panics(t, func() { MustNew(WithMatcher(nil)) })

	r, err := New(WithLogger(nil))
	require.NoError(t, err)
	assert.Same(t, NoopLogger(), r.logger)
}

func TestGroups_NestedPrefixes(t *testing.T) {
	t.Parallel()

	r := MustNew()
	var inner *Group
	r.Group("/api", func(api *Group) {
		api.Group("/v1", func(v1 *Group) {
			inner = v1
			v1.GET("/users", text("users"))
		})
		api.GET("/health", text("health"))
	})
	r.GET("/", text("root"))

	assert.Equal(t, "/api/v1", inner.FullPrefix())
	assert.Equal(t, "/v1", inner.Prefix())

	for path, body := range map[string]string{
		"/api/v1/users": "users",
		"/api/health":   "health",
		"/":             "root",
	} {
		res, err := r.Dispatch(newRequest(http.MethodGet, path))
		require.NoError(t, err)
		assert.Equal(t, body, res.BodyString(), path)
	}

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Len(t, routes[0].Groups(), 2)
	assert.Equal(t, "/api", routes[0].Groups()[0].Prefix())
	assert.Empty(t, routes[2].Groups())
}

func TestGroups_PanicInSetupDoesNotLeakPrefix(t *testing.T) {
	t.Parallel()

	r := MustNew()
	assert.Panics(t, func() {
		r.Group("/broken", func(g *Group) {
			g.GET("/before", text("before"))
			panic("setup failed")
		})
	})
	r.GET("/after", text("after"))

	res, err := r.Dispatch(newRequest(http.MethodGet, "/after"))
	require.NoError(t, err)
	assert.Equal(t, "after", res.BodyString())
	assert.Empty(t, r.Routes()[1].Groups())
}

func TestHTTPMethodHelpers(t *testing.T) {
	t.Parallel()

	r := MustNew()
	g := r.Group("/g", nil)
	r.GET("/r", text("GET"))
	r.POST("/r", text("POST"))
	r.PUT("/r", text("PUT"))
	r.DELETE("/r", text("DELETE"))
	r.PATCH("/r", text("PATCH"))
	g.GET("/r", text("GET"))
	g.POST("/r", text("POST"))
	g.PUT("/r", text("PUT"))
	g.DELETE("/r", text("DELETE"))
	g.PATCH("/r", text("PATCH"))
	g.HEAD("/r", text(""))
	g.OPTIONS("/r", text("OPTIONS"))

	for _, prefix := range []string{"", "/g"} {
		for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			res, err := r.Dispatch(newRequest(m, prefix+"/r"))
			require.NoError(t, err)
			assert.Equal(t, m, res.BodyString())
		}
	}
	res, err := r.Dispatch(newRequest(http.MethodOptions, "/g/r"))
	require.NoError(t, err)
	assert.Equal(t, "OPTIONS", res.BodyString())
}

func TestFreeze_RejectsMutation(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var kinds []DiagnosticKind
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		mu.Lock()
		kinds = append(kinds, e.Kind)
		mu.Unlock()
	})))
	rt := r.GET("/x", text("x"))
	g := r.Group("/g", nil)
	mg := r.MiddlewareGroup("web")

	require.NoError(t, r.Freeze())
	assert.True(t, r.Frozen())

	mutations := map[string]func(){
		"register":           func() { r.GET("/y", text("y")) },
		"use":                func() { r.Use("x") },
		"route middleware":   func() { rt.Middleware("x") },
		"route group":        func() { rt.MiddlewareGroup("web") },
		"route name":         func() { rt.SetName("x") },
		"group middleware":   func() { g.Middleware("x") },
		"group registration": func() { g.GET("/z", text("z")) },
		"middleware group":   func() { mg.Add("x") },
		"new group":          func() { r.MiddlewareGroup("api") },
	}
	for name, mutate := range mutations {
		func() {
			defer func() {
				rec := recover()
				require.NotNil(t, rec, name)
				err, ok := rec.(error)
				require.True(t, ok, name)
				assert.ErrorIs(t, err, ErrRouterFrozen, name)
			}()
			mutate()
		}()
	}

	// Existing middleware groups can still be read.
	assert.Same(t, mg, r.MiddlewareGroup("web"))
	assert.Contains(t, kinds, DiagRouteRegistered)
	assert.Contains(t, kinds, DiagRouterFrozen)
	assert.Contains(t, kinds, DiagFrozenMutation)
}

func TestFreeze_ReportsRegistrationErrors(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/a/{id}", text("a"))
	r.GET("/a/{id}", text("dup"))
	r.GET("/b", nil)

	err := r.Freeze()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilHandler)
	assert.Contains(t, err.Error(), "route already registered")
	assert.Equal(t, err, r.Freeze())

	res, err := r.Dispatch(newRequest(http.MethodGet, "/a/1"))
	require.NoError(t, err)
	assert.Equal(t, "a", res.BodyString())
}

func TestNamedRoutes(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.Group("/users", func(g *Group) {
		g.GET("/{id}/posts/{post}", text("post")).SetName("posts.show")
		g.GET("", text("index")).SetName("users.index")
	})

	rt, ok := r.RouteByName("posts.show")
	require.True(t, ok)
	assert.Equal(t, "/users/{id}/posts/{post}", rt.Path())
	assert.Equal(t, "posts.show", rt.Name())

	u, err := r.URL("posts.show", map[string]string{"id": "42", "post": "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "/users/42/posts/hello%20world", u)

	u, err = r.URL("users.index", nil)
	require.NoError(t, err)
	assert.Equal(t, "/users", u)

	_, err = r.URL("posts.show", map[string]string{"id": "1"})
	require.ErrorIs(t, err, ErrMissingRouteParameter)

	_, err = r.URL("nope", nil)
	require.ErrorIs(t, err, ErrRouteNotFound)

	r.GET("/other", text("other")).SetName("users.index")
	require.ErrorIs(t, r.Validate(), ErrDuplicateRouteName)
}

func TestNamedRoutes_EmptyNameLeavesRouteUnnamed(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/a", text("a")).SetName("")
	r.GET("/b", text("b")).SetName("")
	renamed := r.GET("/c", text("c")).SetName("c")
	renamed.SetName("")

	require.NoError(t, r.Validate())
	require.NoError(t, r.Freeze())
	_, ok := r.RouteByName("")
	assert.False(t, ok)
	_, ok = r.RouteByName("c")
	assert.False(t, ok)
	assert.Empty(t, renamed.Name())
}

func TestServeHTTP(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	r := MustNew(WithLogger(logger))
	r.GET("/hello/{name}", container.Func(func(req *message.Request, args ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, "hello "+args[0]).WithHeader("X-Route", req.Pattern()), nil
	}))
	r.GET("/fail", container.Func(func(*message.Request, ...string) (*message.Response, error) {
		return nil, errors.New("database down")
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello/gopher", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello gopher", w.Body.String())
	assert.Equal(t, "/hello/{name}", w.Header().Get("X-Route"))
	assert.Equal(t, "12", w.Header().Get("Content-Length"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), "database down")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/hello/x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD, OPTIONS", w.Header().Get("Allow"))
}

func TestServeHTTP_Concurrent(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/items/{id}", echoArgs())

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/5", nil))
			assert.Equal(t, "5", w.Body.String())
		}()
	}
	wg.Wait()
}

func TestWriteRoutes(t *testing.T) {
	t.Parallel()

	r, c, _ := newTestRouter("auth")
	c.Instance("users", userController{})
	r.Group("/api", func(g *Group) {
		g.GET("/users/{id}", container.Method{Ref: "users", Action: "show"}).SetName("users.show").Middleware("auth")
	})
	r.POST("/login", text("login"))

	var buf bytes.Buffer
	require.NoError(t, r.WriteRoutes(&buf))
	out := buf.String()
	assert.Contains(t, out, "/api/users/{id}")
	assert.Contains(t, out, "users@show")
	assert.Contains(t, out, "users.show")
	assert.Contains(t, out, "auth")
	assert.Contains(t, out, "/login")
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Middleware:       []string{"global"},
		MiddlewareGroups: map[string][]string{"web": {"a", "b"}},
		Defaults: config.Defaults{
			NotFoundBody:         "nothing here",
			MethodNotAllowedBody: "wrong method",
		},
	}
	c := container.New()
	rec := &recorder{}
	for _, tag := range []string{"global", "a", "b"} {
		c.Instance(tag, rec.mw(tag))
	}
	r := MustNew(WithResolver(c), WithConfig(cfg))
	r.GET("/x", text("x")).MiddlewareGroup("web")

	res, err := r.Dispatch(newRequest(http.MethodGet, "/x"))
	require.NoError(t, err)
	assert.Equal(t, "x", res.BodyString())
	assert.Equal(t, []string{"global", "a", "b"}, rec.order())

	res, err = r.Dispatch(newRequest(http.MethodGet, "/y"))
	require.NoError(t, err)
	assert.Equal(t, "nothing here", res.BodyString())

	res, err = r.Dispatch(newRequest(http.MethodPost, "/x"))
	require.NoError(t, err)
	assert.Equal(t, "wrong method", res.BodyString())
	assert.Equal(t, []string{"global"}, r.Middleware())
}
