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

package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"mime"
	"path"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"

	"rivaas.dev/kernel/message"
	"rivaas.dev/kernel/router"
)

// Encoding names as they appear in Accept-Encoding and Content-Encoding.
const (
	EncodingBrotli = "br"
	EncodingGzip   = "gzip"
)

// Option configures the compression middleware.
type Option func(*config)

type config struct {
	gzipLevel           int
	brotliLevel         int
	enableGzip          bool
	enableBrotli        bool
	minSize             int
	excludePaths        map[string]bool
	excludeExtensions   map[string]bool
	excludeContentTypes map[string]bool
	logger              *slog.Logger
}

func defaultConfig() *config {
	return &config{
		gzipLevel:         gzip.DefaultCompression,
		brotliLevel:       4,
		enableGzip:        true,
		enableBrotli:      true,
		minSize:           1024,
		excludePaths:      make(map[string]bool),
		excludeExtensions: make(map[string]bool),
		excludeContentTypes: map[string]bool{
			"application/zip":      true,
			"application/gzip":     true,
			"application/x-brotli": true,
		},
		logger: slog.Default(),
	}
}

// New returns the compression middleware.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return router.MiddlewareFunc(func(req *message.Request, next router.Handler) (*message.Response, error) {
		res, err := next.Handle(req)
		if err != nil || res == nil {
			return res, err
		}
		return cfg.compress(req, res), nil
	})
}

func (cfg *config) compress(req *message.Request, res *message.Response) *message.Response {
	if !cfg.compressible(req, res) {
		return res
	}
	res = res.WithAddedHeader("Vary", "Accept-Encoding")

	encoding := cfg.negotiate(req.Header().Get("Accept-Encoding"))
	if encoding == "" {
		return res
	}

	body, err := cfg.encode(encoding, res.Body())
	if err != nil {
		cfg.logger.WarnContext(req.Context(), "response compression failed",
			"encoding", encoding,
			"path", req.Path(),
			"error", err,
		)
		return res
	}

	return res.
		WithHeader("Content-Encoding", encoding).
		WithoutHeader("Content-Length").
		WithBody(body)
}

func (cfg *config) compressible(req *message.Request, res *message.Response) bool {
	switch {
	case res.Size() == 0 || res.Size() < cfg.minSize:
		return false
	case res.HasHeader("Content-Encoding"):
		return false
	case strings.Contains(strings.ToLower(res.HeaderLine("Cache-Control")), "no-transform"):
		return false
	case cfg.excludePaths[req.Path()]:
		return false
	case cfg.excludeExtensions[path.Ext(req.Path())]:
		return false
	}
	return !cfg.excludedType(res.HeaderLine("Content-Type"))
}

func (cfg *config) excludedType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if cfg.excludeContentTypes[mediaType] {
		return true
	}
	major, _, _ := strings.Cut(mediaType, "/")
	switch major {
	case "video", "audio":
		return true
	case "image":
		return mediaType != "image/svg+xml"
	}
	return false
}

// negotiate picks the enabled encoding with the highest quality value.
// Brotli wins a tie.
func (cfg *config) negotiate(acceptEncoding string) string {
	if acceptEncoding == "" {
		return ""
	}

	var brQ, gzipQ, anyQ float64 = -1, -1, -1
	for part := range strings.SplitSeq(acceptEncoding, ",") {
		name, q := parseCoding(part)
		switch name {
		case EncodingBrotli:
			brQ = q
		case EncodingGzip, "x-gzip":
			gzipQ = q
		case "*":
			anyQ = q
		}
	}
	if brQ < 0 {
		brQ = anyQ
	}
	if gzipQ < 0 {
		gzipQ = anyQ
	}
	if !cfg.enableBrotli {
		brQ = 0
	}
	if !cfg.enableGzip {
		gzipQ = 0
	}

	switch {
	case brQ > 0 && brQ >= gzipQ:
		return EncodingBrotli
	case gzipQ > 0:
		return EncodingGzip
	}
	return ""
}

func parseCoding(part string) (string, float64) {
	name, params, _ := strings.Cut(part, ";")
	name = strings.ToLower(strings.TrimSpace(name))
	q := 1.0
	for param := range strings.SplitSeq(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || strings.TrimSpace(key) != "q" {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return name, 0
		}
		q = parsed
	}
	return name, q
}

func (cfg *config) encode(encoding string, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case EncodingBrotli:
		w = brotli.NewWriterLevel(&buf, cfg.brotliLevel)
	default:
		gz, err := gzip.NewWriterLevel(&buf, cfg.gzipLevel)
		if err != nil {
			return nil, err
		}
		w = gz
	}

	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
