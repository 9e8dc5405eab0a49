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

package message

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ctxKey struct{}

func TestRequestAccessors(t *testing.T) {
	t.Parallel()

	req := FromHTTP(httptest.NewRequest(http.MethodGet, "/greet/John?x=1", nil))

	assert.Equal(t, http.MethodGet, req.Method())
	assert.Equal(t, "/greet/John", req.Path())
	assert.NotNil(t, req.Context())
	assert.Empty(t, req.Pattern())
}

func TestRequestParamsAreOrdered(t *testing.T) {
	t.Parallel()

	req := FromHTTP(httptest.NewRequest(http.MethodGet, "/greet/John/Doe/30", nil)).
		WithParams([]Param{{"name", "John"}, {"lastname", "Doe"}, {"age", "30"}})

	assert.Equal(t, []string{"John", "Doe", "30"}, req.Args())
	assert.Equal(t, "Doe", req.Param("lastname"))
	assert.Empty(t, req.Param("missing"))
}

func TestRequestWithHeaderClonesUnderlyingRequest(t *testing.T) {
	t.Parallel()

	raw := httptest.NewRequest(http.MethodGet, "/", nil)
	req := FromHTTP(raw)
	changed := req.WithHeader("X-Trace", "abc")

	assert.Empty(t, raw.Header.Get("X-Trace"))
	assert.Equal(t, "abc", changed.Header().Get("X-Trace"))
}

func TestRequestWithContextAndRoute(t *testing.T) {
	t.Parallel()

	req := FromHTTP(httptest.NewRequest(http.MethodGet, "/users/1", nil))
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	got := req.WithContext(ctx).WithRoute("/users/{id}", "users.show")

	assert.Equal(t, "v", got.Context().Value(ctxKey{}))
	assert.Equal(t, "/users/{id}", got.Pattern())
	assert.Equal(t, "users.show", got.RouteName())
	assert.Empty(t, req.Pattern())
}
