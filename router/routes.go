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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"rivaas.dev/kernel/container"
)

// Routes returns the registered routes in registration order.
// The slice is a copy; the routes themselves are shared.
func (r *Router) Routes() []*Route {
	return append([]*Route(nil), r.routes...)
}

// RouteByName returns the route registered under name.
func (r *Router) RouteByName(name string) (*Route, bool) {
	rt, ok := r.namedRoutes[name]
	return rt, ok
}

// URL builds the path of the named route, substituting each {placeholder}
// with the URL-escaped value from params.
//
// Example:
//
//	r.GET("/users/{id}", show).SetName("users.show")
//	u, _ := r.URL("users.show", map[string]string{"id": "42"}) // "/users/42"
func (r *Router) URL(name string, params map[string]string) (string, error) {
	rt, ok := r.namedRoutes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}

	var sb strings.Builder
	pattern := rt.path
	for {
		start := strings.IndexByte(pattern, '{')
		if start < 0 {
			sb.WriteString(pattern)
			break
		}
		end := strings.IndexByte(pattern[start:], '}')
		if end < 0 {
			sb.WriteString(pattern)
			break
		}
		end += start
		key := pattern[start+1 : end]
		value, ok := params[key]
		if !ok {
			return "", fmt.Errorf("%w: %q for route %q", ErrMissingRouteParameter, key, name)
		}
		sb.WriteString(pattern[:start])
		sb.WriteString(url.PathEscape(value))
		pattern = pattern[end+1:]
	}
	return sb.String(), nil
}

var methodStyles = map[string]lipgloss.Style{
	http.MethodGet:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // Green
	http.MethodPost:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true), // Blue
	http.MethodPut:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true), // Yellow
	http.MethodDelete:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),  // Red
	http.MethodPatch:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true), // Magenta
	http.MethodHead:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true), // Cyan
	http.MethodOptions: lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),  // Gray
}

// WriteRoutes renders the route table to w.
//
// Colors are downsampled to what the output supports: a terminal gets ANSI
// colors, a file or pipe gets plain text.
func (r *Router) WriteRoutes(w io.Writer) error {
	cpw := colorprofile.NewWriter(w, os.Environ())

	rows := make([][]string, 0, len(r.routes))
	for _, rt := range r.routes {
		method := rt.method
		if style, ok := methodStyles[method]; ok {
			method = style.Render(method)
		}
		name := rt.name
		if name == "" {
			name = "-"
		}
		refs, err := r.MiddlewareFor(rt)
		chain := strings.Join(refs, ", ")
		if err != nil {
			chain = "error: " + err.Error()
		}
		rows = append(rows, []string{method, rt.path, name, handlerName(rt.handler), chain})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Align(lipgloss.Left).Padding(0, 1)
			if row == table.HeaderRow {
				style = style.Bold(true).Foreground(lipgloss.Color("230"))
			}
			return style
		}).
		Headers("Method", "Path", "Name", "Handler", "Middleware").
		Rows(rows...)

	_, err := fmt.Fprintln(cpw, t.Render())
	return err
}

func handlerName(t container.Target) string {
	switch h := t.(type) {
	case container.Method:
		return h.String()
	case container.Func:
		return "func"
	default:
		return fmt.Sprintf("%T", t)
	}
}
