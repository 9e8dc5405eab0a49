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

package errors

import (
	"fmt"
	"net/http"

	"rivaas.dev/kernel/message"
)

// PlainText formats errors as "<status> <status text>" text bodies, the
// same shape as the router's default 404 and 405 responses.
type PlainText struct {
	// StatusResolver determines HTTP status from error.
	// If nil, uses ErrorType interface or defaults to 500.
	StatusResolver func(err error) int

	// ExposeMessage appends the error message for statuses below 500.
	// Server errors never expose their message.
	ExposeMessage bool
}

// Format converts err into a text/plain response.
func (f *PlainText) Format(_ *message.Request, err error) *message.Response {
	status := statusOf(f.StatusResolver, err)
	body := fmt.Sprintf("%d %s", status, http.StatusText(status))
	if f.ExposeMessage && status < http.StatusInternalServerError {
		body += ": " + err.Error()
	}
	return message.Text(status, body)
}
