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

package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rivaas.dev/kernel/config/codec"
)

// Source produces a generic configuration map.
// Sources are merged in order; later sources override earlier ones.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context) (map[string]any, error)

// Load implements [Source].
func (f SourceFunc) Load(ctx context.Context) (map[string]any, error) {
	return f(ctx)
}

type fileSource struct {
	path string
	typ  codec.Type
	data []byte
}

// File reads the document at path. The codec is chosen from the extension.
func File(path string) Source {
	return &fileSource{path: path}
}

// FileAs reads the document at path with an explicit codec.
func FileAs(path string, typ codec.Type) Source {
	return &fileSource{path: path, typ: typ}
}

// Content decodes an in-memory document.
func Content(data []byte, typ codec.Type) Source {
	return &fileSource{data: data, typ: typ}
}

func (f *fileSource) Load(context.Context) (map[string]any, error) {
	typ := f.typ
	if typ == "" {
		detected, err := codec.ForPath(f.path)
		if err != nil {
			return nil, err
		}
		typ = detected
	}
	dec, err := codec.GetDecoder(typ)
	if err != nil {
		return nil, err
	}

	data := f.data
	if f.path != "" {
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var values map[string]any
	if err = dec.Decode(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", typ, err)
	}
	return values, nil
}

type envSource struct {
	prefix string
}

// Env reads configuration from environment variables named with prefix:
//
//	<prefix>MIDDLEWARE=log,auth
//	<prefix>GROUP_API=throttle,auth      # middleware group "api"
//	<prefix>NOT_FOUND_BODY=...
//	<prefix>METHOD_NOT_ALLOWED_BODY=...
//	<prefix>INTERNAL_ERROR_BODY=...
//
// List values are comma separated.
func Env(prefix string) Source {
	return &envSource{prefix: strings.ToUpper(prefix)}
}

func (e *envSource) Load(context.Context) (map[string]any, error) {
	values := make(map[string]any)
	groups := make(map[string]any)
	defaults := make(map[string]any)

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, e.prefix) {
			continue
		}
		name := strings.TrimPrefix(key, e.prefix)
		switch {
		case name == "MIDDLEWARE":
			values["middleware"] = value
		case name == "NOT_FOUND_BODY", name == "METHOD_NOT_ALLOWED_BODY", name == "INTERNAL_ERROR_BODY":
			defaults[strings.ToLower(name)] = value
		case strings.HasPrefix(name, "GROUP_") && len(name) > len("GROUP_"):
			groups[strings.ToLower(strings.TrimPrefix(name, "GROUP_"))] = value
		}
	}

	if len(groups) > 0 {
		values["middleware_groups"] = groups
	}
	if len(defaults) > 0 {
		values["defaults"] = defaults
	}
	return values, nil
}
