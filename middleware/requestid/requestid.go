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

package requestid

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
)

// DefaultHeader is the header carrying the request ID.
const DefaultHeader = "X-Request-ID"

type contextKey struct{}

// Option configures the requestid middleware.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
	maxLength     int
}

func defaultConfig() *config {
	return &config{
		headerName:    DefaultHeader,
		generator:     generateUUIDv7,
		allowClientID: true,
		maxLength:     128,
	}
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

func generateUUIDv4() string {
	return uuid.NewString()
}

// ulidEntropy is monotonic within the same millisecond. It is not safe for
// concurrent use on its own.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// WithHeader sets the header name. Default: X-Request-ID.
func WithHeader(name string) Option {
	return func(cfg *config) {
		cfg.headerName = name
	}
}

// WithULID generates ULIDs instead of UUID v7.
func WithULID() Option {
	return func(cfg *config) {
		cfg.generator = generateULID
	}
}

// WithUUIDv4 generates random UUID v4 values instead of UUID v7.
func WithUUIDv4() Option {
	return func(cfg *config) {
		cfg.generator = generateUUIDv4
	}
}

// WithGenerator sets a custom ID generator.
func WithGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.generator = fn
		}
	}
}

// WithAllowClientID controls whether an ID sent by the client is reused.
// Default: true.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) {
		cfg.allowClientID = allow
	}
}

// WithMaxLength sets the longest client ID that is accepted; longer ones
// are replaced by a generated ID. Default: 128.
func WithMaxLength(n int) Option {
	return func(cfg *config) {
		cfg.maxLength = n
	}
}

// New returns the requestid middleware.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return router.MiddlewareFunc(func(req *message.Request, next router.Handler) (*message.Response, error) {
		var id string
		if cfg.allowClientID {
			id = req.Header().Get(cfg.headerName)
			if cfg.maxLength > 0 && len(id) > cfg.maxLength {
				id = ""
			}
		}
		if id == "" {
			id = cfg.generator()
		}

		req = req.WithContext(context.WithValue(req.Context(), contextKey{}, id))
		res, err := next.Handle(req)
		if res != nil {
			res = res.WithHeader(cfg.headerName, id)
		}
		return res, err
	})
}

// Get returns the request ID of req, or "" when the middleware did not run.
func Get(req *message.Request) string {
	return FromContext(req.Context())
}

// FromContext returns the request ID stored in ctx, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
