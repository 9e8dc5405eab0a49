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

package security

import (
	"sort"
	"strconv"
	"strings"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
)

// Option configures the security middleware.
type Option func(*config)

type config struct {
	frameOptions          string
	contentTypeNosniff    bool
	xssProtection         string
	hstsMaxAge            int
	hstsIncludeSubdomains bool
	hstsPreload           bool
	trustForwardedProto   bool
	contentSecurityPolicy string
	referrerPolicy        string
	permissionsPolicy     string
	customHeaders         map[string]string
}

func defaultConfig() *config {
	return &config{
		frameOptions:          "DENY",
		contentTypeNosniff:    true,
		xssProtection:         "1; mode=block",
		hstsMaxAge:            31536000, // 1 year
		hstsIncludeSubdomains: true,
		contentSecurityPolicy: "default-src 'self'",
		referrerPolicy:        "strict-origin-when-cross-origin",
		customHeaders:         make(map[string]string),
	}
}

type header struct {
	name  string
	value string
}

// headers returns the always-on headers in a stable order.
func (cfg *config) headers() []header {
	var hs []header
	add := func(name, value string) {
		if value != "" {
			hs = append(hs, header{name, value})
		}
	}
	add("X-Frame-Options", cfg.frameOptions)
	if cfg.contentTypeNosniff {
		add("X-Content-Type-Options", "nosniff")
	}
	add("X-XSS-Protection", cfg.xssProtection)
	add("Content-Security-Policy", cfg.contentSecurityPolicy)
	add("Referrer-Policy", cfg.referrerPolicy)
	add("Permissions-Policy", cfg.permissionsPolicy)

	names := make([]string, 0, len(cfg.customHeaders))
	for name := range cfg.customHeaders {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		add(name, cfg.customHeaders[name])
	}
	return hs
}

func (cfg *config) hsts() string {
	if cfg.hstsMaxAge <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("max-age=")
	b.WriteString(strconv.Itoa(cfg.hstsMaxAge))
	if cfg.hstsIncludeSubdomains {
		b.WriteString("; includeSubDomains")
	}
	if cfg.hstsPreload {
		b.WriteString("; preload")
	}
	return b.String()
}

// New returns the security headers middleware.
//
// Basic usage with the defaults:
//
//	c.Instance("secure_headers", security.New())
//
// Disabling HSTS during development:
//
//	security.New(security.WithHSTS(0, false, false))
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	headers := cfg.headers()
	hsts := cfg.hsts()

	return router.MiddlewareFunc(func(req *message.Request, next router.Handler) (*message.Response, error) {
		res, err := next.Handle(req)
		if err != nil || res == nil {
			return res, err
		}

		for _, h := range headers {
			if !res.HasHeader(h.name) {
				res = res.WithHeader(h.name, h.value)
			}
		}
		if hsts != "" && cfg.secure(req) && !res.HasHeader("Strict-Transport-Security") {
			res = res.WithHeader("Strict-Transport-Security", hsts)
		}
		return res, nil
	})
}

func (cfg *config) secure(req *message.Request) bool {
	if req.HTTP().TLS != nil {
		return true
	}
	return cfg.trustForwardedProto && strings.EqualFold(req.Header().Get("X-Forwarded-Proto"), "https")
}
