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

package accesslog

import (
	"hash/fnv"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/middleware/requestid"
	"rivaas.dev/kernel/router"
	"rivaas.dev/kernel/telemetry/semconv"
)

// Option configures the accesslog middleware.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	excludePaths    map[string]bool
	excludePrefixes []string
	slowThreshold   time.Duration
	errorsOnly      bool
	sampleRate      float64
	requestID       func(*message.Request) string
}

func defaultConfig() *config {
	return &config{
		logger:       slog.Default(),
		excludePaths: make(map[string]bool),
		sampleRate:   1,
		requestID:    requestid.Get,
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithExcludePaths skips requests whose path equals one of paths.
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, p := range paths {
			cfg.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips requests whose path starts with one of prefixes.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(cfg *config) {
		cfg.excludePrefixes = append(cfg.excludePrefixes, prefixes...)
	}
}

// WithSlowThreshold logs requests taking at least d at Warn with slow=true.
// Zero disables slow detection.
func WithSlowThreshold(d time.Duration) Option {
	return func(cfg *config) {
		cfg.slowThreshold = d
	}
}

// WithErrorsOnly logs only failed and slow requests.
func WithErrorsOnly() Option {
	return func(cfg *config) {
		cfg.errorsOnly = true
	}
}

// WithSampleRate keeps the given fraction of successful requests.
// The rate is clamped to [0, 1]. Default: 1.
func WithSampleRate(rate float64) Option {
	return func(cfg *config) {
		cfg.sampleRate = math.Max(0, math.Min(1, rate))
	}
}

// WithRequestIDFunc sets how the request ID is read.
// Default: requestid.Get.
func WithRequestIDFunc(fn func(*message.Request) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.requestID = fn
		}
	}
}

// New returns the accesslog middleware.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return router.MiddlewareFunc(func(req *message.Request, next router.Handler) (*message.Response, error) {
		if cfg.excluded(req.Path()) {
			return next.Handle(req)
		}

		start := time.Now()
		res, err := next.Handle(req)
		cfg.log(req, res, err, time.Since(start))
		return res, err
	})
}

func (cfg *config) excluded(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, prefix := range cfg.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (cfg *config) log(req *message.Request, res *message.Response, err error, duration time.Duration) {
	status, size := http.StatusInternalServerError, 0
	if res != nil && err == nil {
		status, size = res.Status(), res.Size()
	}

	failed := status >= 400
	slow := cfg.slowThreshold > 0 && duration >= cfg.slowThreshold
	if !failed && !slow {
		if cfg.errorsOnly {
			return
		}
		if !cfg.sampled(req) {
			return
		}
	}

	reqID := cfg.requestID(req)
	attrs := []slog.Attr{
		slog.String("method", req.Method()),
		slog.String("path", req.Path()),
		slog.String("pattern", req.Pattern()),
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.Int("bytes", size),
		slog.String("user_agent", req.Header().Get("User-Agent")),
		slog.String("client_ip", clientIP(req)),
	}
	if reqID != "" {
		attrs = append(attrs, slog.String(semconv.RequestID, reqID))
	}
	if name := req.RouteName(); name != "" {
		attrs = append(attrs, slog.String("route", name))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if slow {
		attrs = append(attrs, slog.Bool("slow", true))
	}

	level := slog.LevelInfo
	if failed || slow {
		level = slog.LevelWarn
	}
	cfg.logger.LogAttrs(req.Context(), level, "http request", attrs...)
}

// sampled hashes the request ID so the decision is stable across services.
// Requests without an ID fall back to a random draw.
func (cfg *config) sampled(req *message.Request) bool {
	switch cfg.sampleRate {
	case 1:
		return true
	case 0:
		return false
	}

	id := cfg.requestID(req)
	if id == "" {
		return rand.Float64() < cfg.sampleRate
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return float64(h.Sum64())/float64(math.MaxUint64) < cfg.sampleRate
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// peer address.
func clientIP(req *message.Request) string {
	if fwd := req.Header().Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := req.Header().Get("X-Real-IP"); ip != "" {
		return ip
	}
	remote := req.HTTP().RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return host
	}
	return remote
}
