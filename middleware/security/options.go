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

// WithFrameOptions sets X-Frame-Options, for example "DENY" or "SAMEORIGIN".
// An empty value omits the header.
func WithFrameOptions(value string) Option {
	return func(cfg *config) {
		cfg.frameOptions = value
	}
}

// WithContentTypeNosniff toggles X-Content-Type-Options: nosniff.
func WithContentTypeNosniff(enabled bool) Option {
	return func(cfg *config) {
		cfg.contentTypeNosniff = enabled
	}
}

// WithXSSProtection sets X-XSS-Protection. Modern browsers ignore it.
func WithXSSProtection(value string) Option {
	return func(cfg *config) {
		cfg.xssProtection = value
	}
}

// WithHSTS configures Strict-Transport-Security. A maxAge of zero or less
// disables the header.
//
// Example:
//
//	security.New(security.WithHSTS(63072000, true, true))
func WithHSTS(maxAge int, includeSubdomains, preload bool) Option {
	return func(cfg *config) {
		cfg.hstsMaxAge = maxAge
		cfg.hstsIncludeSubdomains = includeSubdomains
		cfg.hstsPreload = preload
	}
}

// WithTrustForwardedProto treats X-Forwarded-Proto: https as a secure
// connection when deciding whether to send HSTS. Enable it only behind a
// proxy that sets the header.
func WithTrustForwardedProto() Option {
	return func(cfg *config) {
		cfg.trustForwardedProto = true
	}
}

// WithContentSecurityPolicy sets Content-Security-Policy.
//
// Example:
//
//	security.New(security.WithContentSecurityPolicy(
//	    "default-src 'self'; script-src 'self' https://cdn.example.com",
//	))
func WithContentSecurityPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.contentSecurityPolicy = policy
	}
}

// WithReferrerPolicy sets Referrer-Policy, for example "no-referrer" or
// "same-origin".
func WithReferrerPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.referrerPolicy = policy
	}
}

// WithPermissionsPolicy sets Permissions-Policy.
//
// Example:
//
//	security.New(security.WithPermissionsPolicy("geolocation=(), camera=()"))
func WithPermissionsPolicy(policy string) Option {
	return func(cfg *config) {
		cfg.permissionsPolicy = policy
	}
}

// WithCustomHeader adds a header that is set on every response.
func WithCustomHeader(name, value string) Option {
	return func(cfg *config) {
		cfg.customHeaders[name] = value
	}
}

// NoSecurityHeaders clears every header, including custom ones added by
// earlier options. Useful when a gateway already sets them.
func NoSecurityHeaders() Option {
	return func(cfg *config) {
		*cfg = config{customHeaders: make(map[string]string)}
	}
}

// DevelopmentPreset relaxes the policy for local work: SAMEORIGIN framing,
// inline scripts and styles allowed, no HSTS.
func DevelopmentPreset() Option {
	return func(cfg *config) {
		cfg.frameOptions = "SAMEORIGIN"
		cfg.contentTypeNosniff = true
		cfg.contentSecurityPolicy = "default-src 'self' 'unsafe-inline' 'unsafe-eval'; img-src 'self' data:"
		cfg.referrerPolicy = "no-referrer-when-downgrade"
		cfg.hstsMaxAge = 0
	}
}

// ProductionPreset enables every header with strict values, including HSTS
// preload and a Permissions-Policy that denies geolocation, microphone and
// camera. Later options override single headers:
//
//	security.New(
//	    security.ProductionPreset(),
//	    security.WithFrameOptions("SAMEORIGIN"),
//	)
func ProductionPreset() Option {
	return func(cfg *config) {
		cfg.frameOptions = "DENY"
		cfg.contentTypeNosniff = true
		cfg.xssProtection = "1; mode=block"
		cfg.hstsMaxAge = 31536000
		cfg.hstsIncludeSubdomains = true
		cfg.hstsPreload = true
		cfg.contentSecurityPolicy = "default-src 'self'"
		cfg.referrerPolicy = "strict-origin-when-cross-origin"
		cfg.permissionsPolicy = "geolocation=(), microphone=(), camera=()"
	}
}
