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
	"errors"
	"fmt"
	"os"
	"slices"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"

	"rivaas.dev/kernel/config/codec"
)

// Config is the declarative part of a router setup.
type Config struct {
	// Middleware is the global middleware list, in declaration order.
	Middleware []string `mapstructure:"middleware" validate:"dive,required"`

	// MiddlewareGroups maps a group name to its ordered middleware references.
	MiddlewareGroups map[string][]string `mapstructure:"middleware_groups" validate:"dive,keys,required,endkeys,dive,required"`

	Defaults Defaults `mapstructure:"defaults"`
}

// Defaults holds the bodies of the synthetic responses.
type Defaults struct {
	NotFoundBody         string `mapstructure:"not_found_body"`
	MethodNotAllowedBody string `mapstructure:"method_not_allowed_body"`
	InternalErrorBody    string `mapstructure:"internal_error_body"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when no source sets a value.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			NotFoundBody:         "404 Not Found",
			MethodNotAllowedBody: "405 Method Not Allowed",
			InternalErrorBody:    "500 Internal Server Error",
		},
	}
}

// New loads every source in order, merges the results with later sources
// taking precedence, fills unset fields from [Default] and validates.
func New(ctx context.Context, sources ...Source) (*Config, error) {
	merged := make(map[string]any)
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if values == nil {
			continue
		}
		if err = mergo.Map(&merged, values, mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	cfg := &Config{}
	if err := decode(merged, cfg); err != nil {
		return nil, NewError("config", "decode", err)
	}
	if err := mergo.Merge(cfg, *Default()); err != nil {
		return nil, NewError("defaults", "merge", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a single configuration file. The format follows the extension:
// .yaml/.yml, .toml or .json.
func Load(path string) (*Config, error) {
	return New(context.Background(), File(path))
}

// MustLoad is like [Load] but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load %s: %v", path, err))
	}
	return cfg
}

// Parse decodes an in-memory document.
func Parse(data []byte, typ codec.Type) (*Config, error) {
	return New(context.Background(), Content(data, typ))
}

// Validate checks that no middleware reference or group name is empty.
// Each failing field is reported as an [Error] wrapping [ErrInvalidConfig].
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError("config", "validate", fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, NewFieldError("config", fe.Namespace(), "validate",
			fmt.Errorf("%w: failed on %q", ErrInvalidConfig, fe.Tag())))
	}
	return errors.Join(errs...)
}

// Map returns c as a generic map keyed like the decoded documents.
func (c *Config) Map() map[string]any {
	groups := make(map[string]any, len(c.MiddlewareGroups))
	for name, refs := range c.MiddlewareGroups {
		groups[name] = append([]string{}, refs...)
	}
	return map[string]any{
		"middleware":        append([]string{}, c.Middleware...),
		"middleware_groups": groups,
		"defaults": map[string]any{
			"not_found_body":          c.Defaults.NotFoundBody,
			"method_not_allowed_body": c.Defaults.MethodNotAllowedBody,
			"internal_error_body":     c.Defaults.InternalErrorBody,
		},
	}
}

// Encode renders c with the codec registered under typ.
func (c *Config) Encode(typ codec.Type) ([]byte, error) {
	enc, err := codec.GetEncoder(typ)
	if err != nil {
		return nil, err
	}
	return enc.Encode(c.Map())
}

// Dump writes c to path, choosing the codec from the extension.
func (c *Config) Dump(path string) error {
	typ, err := codec.ForPath(path)
	if err != nil {
		return err
	}
	data, err := c.Encode(typ)
	if err != nil {
		return NewError("file:"+path, "encode", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// GroupNames returns the declared middleware group names, sorted.
func (c *Config) GroupNames() []string {
	names := make([]string, 0, len(c.MiddlewareGroups))
	for name := range c.MiddlewareGroups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
