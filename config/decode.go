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
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

var stringSliceType = reflect.TypeOf([]string(nil))

func decode(values map[string]any, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.DecodeHookFuncType(stringListHook),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}

// stringListHook accepts either a list or a comma separated string wherever
// a []string is expected, so "log, auth" and [log, auth] decode the same.
func stringListHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != stringSliceType {
		return data, nil
	}
	switch v := data.(type) {
	case nil:
		return []string{}, nil
	case string:
		return splitList(v), nil
	default:
		return cast.ToStringSliceE(v)
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
