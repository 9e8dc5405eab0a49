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
	"encoding/json"
	"errors"
	"net/http"

	"rivaas.dev/kernel/message"
)

// Formatter converts an error into a response.
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//	res := formatter.Format(req, err)
type Formatter interface {
	Format(req *message.Request, err error) *message.Response
}

// ErrorType allows errors to declare their own HTTP status code.
//
// Example:
//
//	type ValidationError struct {
//		Message string
//	}
//
//	func (e ValidationError) Error() string   { return e.Message }
//	func (e ValidationError) HTTPStatus() int { return http.StatusBadRequest }
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// NewPlainText creates a PlainText formatter.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// NewSimple creates a Simple formatter.
func NewSimple() *Simple {
	return &Simple{}
}

// NewRFC9457 creates an RFC9457 formatter.
// The baseURL parameter is prepended to error codes to build problem type URIs.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// WithStatus wraps an error with an explicit HTTP status code.
// If err is nil, the status text is used as the error message.
//
// Example:
//
//	return nil, errors.WithStatus(err, http.StatusNotFound)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

// statusError wraps an error with an explicit status code.
type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

// statusOf returns the status chosen by resolver, the status declared by
// the error, or 500.
func statusOf(resolver func(error) int, err error) int {
	if resolver != nil {
		return resolver(err)
	}
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// jsonResponse encodes body. Encoding failures fall back to a plain 500.
func jsonResponse(status int, contentType string, body any) *message.Response {
	data, err := json.Marshal(body)
	if err != nil {
		return message.Text(http.StatusInternalServerError, "500 Internal Server Error")
	}
	return message.NewResponse(status).
		WithHeader("Content-Type", contentType).
		WithBody(data)
}
