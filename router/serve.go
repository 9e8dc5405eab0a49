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

	"rivaas.dev/kernel/message"
)

// ServeHTTP implements http.Handler.
//
// Errors escaping Dispatch are logged and answered with a plain
// 500 Internal Server Error. Install an error boundary middleware such as
// middleware/recovery to shape error responses instead.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	res, err := r.Dispatch(message.FromHTTP(req))
	if err != nil {
		r.logger.ErrorContext(req.Context(), "dispatch failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if res == nil {
		r.logger.ErrorContext(req.Context(), "handler returned no response",
			"method", req.Method,
			"path", req.URL.Path,
		)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := res.Send(w); err != nil {
		r.logger.DebugContext(req.Context(), "write response failed", "error", err)
	}
}
