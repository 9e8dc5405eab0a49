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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWithMethodsDoNotMutateReceiver(t *testing.T) {
	t.Parallel()

	original := Text(http.StatusOK, "hello").WithHeader("X-Custom", "one")
	modified := original.
		WithStatus(http.StatusCreated).
		WithAddedHeader("X-Custom", "two").
		WithBodyString("changed")

	assert.Equal(t, http.StatusOK, original.Status())
	assert.Equal(t, "one", original.HeaderLine("X-Custom"))
	assert.Equal(t, "hello", original.BodyString())

	assert.Equal(t, http.StatusCreated, modified.Status())
	assert.Equal(t, "one, two", modified.HeaderLine("X-Custom"))
	assert.Equal(t, "changed", modified.BodyString())
}

func TestResponseHeaderReturnsCopy(t *testing.T) {
	t.Parallel()

	res := NewResponse(http.StatusOK).WithHeader("Allow", "GET")
	h := res.Header()
	h.Set("Allow", "POST")

	assert.Equal(t, "GET", res.HeaderLine("Allow"))
}

func TestResponseWithoutBodyKeepsHeadersAndStatus(t *testing.T) {
	t.Parallel()

	res := Text(http.StatusAccepted, "payload").WithHeader("X-Custom", "TestValue").WithoutBody()

	assert.Equal(t, http.StatusAccepted, res.Status())
	assert.Equal(t, "TestValue", res.HeaderLine("X-Custom"))
	assert.Empty(t, res.BodyString())
	assert.Equal(t, 0, res.Size())
}

func TestResponseReason(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Not Found", NewResponse(http.StatusNotFound).Reason())
	assert.Equal(t, "Gone Fishing", NewResponse(http.StatusNotFound).WithStatus(http.StatusGone, "Gone Fishing").Reason())
	assert.Equal(t, http.StatusOK, NewResponse(0).Status())
}

func TestResponseZeroValueIsUsable(t *testing.T) {
	t.Parallel()

	var res Response
	got := res.WithHeader("X-Test", "1")

	assert.True(t, got.HasHeader("x-test"))
}

func TestResponseSend(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	err := Text(http.StatusTeapot, "short and stout").WithHeader("X-Pot", "yes").Send(w)
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Pot"))
	assert.Equal(t, "15", w.Header().Get("Content-Length"))
	assert.Equal(t, "short and stout", w.Body.String())
}
