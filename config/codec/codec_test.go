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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Type
	}{
		{"routes.yaml", TypeYAML},
		{"conf/routes.YML", TypeYAML},
		{"routes.toml", TypeTOML},
		{"/etc/kernel/routes.json", TypeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ForPath("routes.ini")
	require.ErrorIs(t, err, ErrUnknownCodec)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	_, err := GetDecoder("xml")
	require.ErrorIs(t, err, ErrUnknownCodec)
	_, err = GetEncoder("xml")
	require.ErrorIs(t, err, ErrUnknownCodec)

	for _, typ := range []Type{TypeYAML, TypeTOML, TypeJSON} {
		dec, err := GetDecoder(typ)
		require.NoError(t, err, typ)
		assert.NotNil(t, dec)
		enc, err := GetEncoder(typ)
		require.NoError(t, err, typ)
		assert.NotNil(t, enc)
	}
}

func TestDecodeIntoMap(t *testing.T) {
	t.Parallel()

	docs := map[Type]string{
		TypeYAML: "middleware:\n  - log\n  - auth\n",
		TypeTOML: "middleware = [\"log\", \"auth\"]\n",
		TypeJSON: `{"middleware": ["log", "auth"]}`,
	}
	for typ, doc := range docs {
		dec, err := GetDecoder(typ)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, dec.Decode([]byte(doc), &m), typ)
		assert.Equal(t, []any{"log", "auth"}, m["middleware"], typ)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	var m map[string]any
	assert.Error(t, JSON{}.Decode([]byte("{"), &m))
	assert.Error(t, TOML{}.Decode([]byte("middleware = ["), &m))
	assert.Error(t, YAML{}.Decode([]byte("middleware: [log"), &m))
}
