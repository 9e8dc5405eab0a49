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
	"fmt"

	"github.com/BurntSushi/toml"
)

// TypeTOML is the TOML codec.
const TypeTOML Type = "toml"

func init() {
	Register(TypeTOML, TOML{}, TOML{})
}

// TOML encodes and decodes TOML documents.
type TOML struct{}

// Encode implements [Encoder].
func (TOML) Encode(v any) ([]byte, error) {
	return toml.Marshal(v)
}

// Decode implements [Decoder]. Undecoded keys are reported as errors.
func (TOML) Decode(data []byte, v any) error {
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("toml: undecoded keys %v", undecoded)
	}
	return nil
}
