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

package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnknownCodec is returned for a codec type or file extension that has
// no registered codec.
var ErrUnknownCodec = errors.New("codec: unknown codec")

type registry struct {
	mu       sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}

var defaultRegistry = &registry{
	encoders: make(map[Type]Encoder),
	decoders: make(map[Type]Decoder),
}

var extensions = map[string]Type{
	".yaml": TypeYAML,
	".yml":  TypeYAML,
	".json": TypeJSON,
	".toml": TypeTOML,
}

// Register installs an encoder and decoder under name, replacing any
// existing registration.
func Register(name Type, enc Encoder, dec Decoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if enc != nil {
		defaultRegistry.encoders[name] = enc
	}
	if dec != nil {
		defaultRegistry.decoders[name] = dec
	}
}

// GetEncoder returns the encoder registered under name.
func GetEncoder(name Type) (Encoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	enc, ok := defaultRegistry.encoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: encoder %q", ErrUnknownCodec, name)
	}
	return enc, nil
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	dec, ok := defaultRegistry.decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: decoder %q", ErrUnknownCodec, name)
	}
	return dec, nil
}

// ForPath detects the codec type from the extension of path.
func ForPath(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensions[ext]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: cannot detect format from extension %q", ErrUnknownCodec, ext)
}
