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

//go:build integration

package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/kernel/container"
	"rivaas.dev/kernel/logging"
	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
)

func reply(body string) container.Func {
	return func(*message.Request, ...string) (*message.Response, error) {
		return message.Text(http.StatusOK, body), nil
	}
}

func serve(r *router.Router, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func allowed(w *httptest.ResponseRecorder) []string {
	return strings.Split(w.Header().Get("Allow"), ", ")
}

// tagger appends its tag to the X-Chain response header on the way out, so
// the header lists middleware from innermost to outermost.
func tagger(tag string) router.MiddlewareFunc {
	return func(req *message.Request, next router.Handler) (*message.Response, error) {
		res, err := next.Handle(req)
		if err != nil {
			return nil, err
		}
		return res.WithAddedHeader("X-Chain", tag), nil
	}
}

var _ = Describe("Router Integration", func() {
	var (
		c *container.Container
		r *router.Router
	)

	BeforeEach(func() {
		c = container.New()
		for _, tag := range []string{"global", "group", "route", "web"} {
			c.Instance(tag, tagger(tag))
		}
		r = router.MustNew(router.WithResolver(c))
	})

	Describe("Automatic OPTIONS", func() {
		It("answers GET routes with GET, HEAD and OPTIONS", func() {
			r.GET("/test", reply("get"))

			w := serve(r, http.MethodOptions, "/test")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(BeEmpty())
			Expect(allowed(w)).To(ConsistOf("GET", "HEAD", "OPTIONS"))
		})

		It("answers POST routes with POST and OPTIONS", func() {
			r.POST("/test", reply("post"))

			w := serve(r, http.MethodOptions, "/test")
			Expect(allowed(w)).To(ConsistOf("POST", "OPTIONS"))
		})

		It("lets an explicit OPTIONS route win", func() {
			r.GET("/test", reply("get"))
			r.OPTIONS("/test", reply("explicit"))

			w := serve(r, http.MethodOptions, "/test")
			Expect(w.Body.String()).To(Equal("explicit"))
			Expect(w.Header().Get("Allow")).To(BeEmpty())
		})

		It("falls back to 404 for unknown paths", func() {
			w := serve(r, http.MethodOptions, "/nonexistent")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(Equal("404 Not Found"))
		})
	})

	Describe("Automatic HEAD", func() {
		BeforeEach(func() {
			r.GET("/test", container.Func(func(*message.Request, ...string) (*message.Response, error) {
				return message.Text(http.StatusOK, "payload").WithHeader("X-Custom", "value"), nil
			})).Middleware("route")
		})

		It("runs the GET route and drops the body", func() {
			w := serve(r, http.MethodHead, "/test")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("X-Custom")).To(Equal("value"))
			Expect(w.Header().Get("X-Chain")).To(Equal("route"))
			Expect(w.Body.Len()).To(BeZero())
		})

		It("prefers an explicit HEAD route", func() {
			r.HEAD("/test", container.Func(func(*message.Request, ...string) (*message.Response, error) {
				return message.NewResponse(http.StatusNoContent).WithHeader("X-Head", "explicit"), nil
			}))

			w := serve(r, http.MethodHead, "/test")
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Header().Get("X-Head")).To(Equal("explicit"))
			Expect(w.Header().Get("X-Custom")).To(BeEmpty())
		})
	})

	Describe("Custom handlers", func() {
		It("uses the custom not-found handler behind global middleware", func() {
			r.Use("global")
			r.SetNotFoundHandler(container.Func(func(*message.Request, ...string) (*message.Response, error) {
				return message.Text(http.StatusNotFound, "Custom 404 Not Found"), nil
			}))

			w := serve(r, http.MethodGet, "/missing")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("Custom 404 Not Found"))
			Expect(w.Header().Get("X-Chain")).To(Equal("global"))
		})

		It("uses the custom method-not-allowed handler", func() {
			r.GET("/test", reply("get"))
			r.SetMethodNotAllowedHandler(container.Func(func(*message.Request, ...string) (*message.Response, error) {
				return message.Text(http.StatusMethodNotAllowed, "Custom 405 Method Not Allowed"), nil
			}))

			w := serve(r, http.MethodPost, "/test")
			Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
			Expect(w.Body.String()).To(ContainSubstring("Custom 405 Method Not Allowed"))
		})
	})

	Describe("Route groups", func() {
		It("composes nested prefixes and middleware", func() {
			r.Use("global")
			r.MiddlewareGroup("webgroup").Add("web")
			r.Group("/group", func(g *router.Group) {
				g.Middleware("group").MiddlewareGroup("webgroup")
				g.Group("/nested", func(n *router.Group) {
					n.GET("/route", reply("nested")).Middleware("route")
				})
			})

			w := serve(r, http.MethodGet, "/group/nested/route")
			Expect(w.Body.String()).To(Equal("nested"))
			// Innermost first: web, group, route, global.
			Expect(w.Header().Values("X-Chain")).To(Equal([]string{"web", "group", "route", "global"}))
		})

		It("does not apply group middleware outside the group", func() {
			r.Group("/group", func(g *router.Group) {
				g.Middleware("group")
				g.GET("/in", reply("in"))
			})
			r.GET("/out", reply("out"))

			w := serve(r, http.MethodGet, "/out")
			Expect(w.Header().Values("X-Chain")).To(BeEmpty())
		})
	})

	Describe("Diagnostics", func() {
		var th *logging.TestHelper

		BeforeEach(func() {
			th = logging.NewTestHelper(GinkgoT())
			lg := th.Logger.Logger()
			r = router.MustNew(
				router.WithResolver(c),
				router.WithLogger(lg),
				router.WithDiagnostics(logging.DiagnosticHandler(lg)),
			)
		})

		It("logs registration and freeze", func() {
			r.Group("/api", func(g *router.Group) {
				g.GET("/users/{id}", reply("user"))
			})
			r.POST("/login", reply("login"))
			Expect(r.Freeze()).To(Succeed())

			th.AssertLog(GinkgoT(), "DEBUG", "route registered", map[string]any{
				"kind":   "route_registered",
				"method": "GET",
				"path":   "/api/users/{id}",
				"groups": 1,
			})
			th.AssertLog(GinkgoT(), "DEBUG", "route registered", map[string]any{
				"kind":   "route_registered",
				"method": "POST",
				"path":   "/login",
				"groups": 0,
			})
			th.AssertLog(GinkgoT(), "DEBUG", "router frozen", map[string]any{
				"kind":   "router_frozen",
				"routes": 2,
				"errors": 0,
			})
			Expect(th.ContainsLog("router configuration invalid")).To(BeFalse())
		})

		It("warns about mutations after the first dispatch", func() {
			r.GET("/test", reply("get"))
			Expect(serve(r, http.MethodGet, "/test").Code).To(Equal(http.StatusOK))

			Expect(func() { r.GET("/late", reply("late")) }).To(PanicWith(MatchError(router.ErrRouterFrozen)))
			th.AssertLog(GinkgoT(), "WARN", "mutation rejected after freeze", map[string]any{
				"kind":   "frozen_mutation_rejected",
				"action": "register GET /late",
			})
		})
	})

	Describe("Route handlers", func() {
		DescribeTable("pass path parameters in placeholder order",
			func(pattern, target, expected string) {
				r.GET(pattern, container.Func(func(_ *message.Request, args ...string) (*message.Response, error) {
					return message.Text(http.StatusOK, strings.Join(args, "/")), nil
				}))
				Expect(serve(r, http.MethodGet, target).Body.String()).To(Equal(expected))
			},
			Entry("single", "/users/{id}", "/users/1", "1"),
			Entry("two", "/users/{id}/posts/{post}", "/users/1/posts/2", "1/2"),
			Entry("none", "/static", "/static", ""),
		)
	})
})
