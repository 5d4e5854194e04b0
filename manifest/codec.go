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

package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Format identifies a manifest document encoding.
type Format string

const (
	// FormatYAML is the YAML document encoding.
	FormatYAML Format = "yaml"

	// FormatTOML is the TOML document encoding.
	FormatTOML Format = "toml"
)

// Decoder converts encoded manifest bytes into Go values.
// Implementations must be safe for concurrent use.
type Decoder interface {
	// Decode converts the encoded data into the value pointed to by v.
	// It returns an error if decoding fails or if v is not a valid target.
	Decode(data []byte, v any) error
}

var decoders = make(map[Format]Decoder)

// RegisterDecoder registers a decoder for the given format, making it
// available to Load and Decode. The built-in YAML and TOML decoders are
// registered at package init; callers may register further formats.
func RegisterDecoder(format Format, decoder Decoder) {
	decoders[format] = decoder
}

// GetDecoder retrieves the registered decoder for the given format. If no
// decoder is registered for the format, an error is returned.
func GetDecoder(format Format) (Decoder, error) {
	decoder, exists := decoders[format]
	if !exists {
		return nil, fmt.Errorf("%w: no decoder for %q", ErrUnknownFormat, string(format))
	}
	return decoder, nil
}

// init registers the built-in document decoders.
func init() {
	RegisterDecoder(FormatYAML, yamlCodec{})
	RegisterDecoder(FormatTOML, tomlCodec{})
}

// yamlCodec implements Decoder for YAML documents.
type yamlCodec struct{}

// Decode decodes the YAML-encoded data into the value pointed to by v.
func (yamlCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// tomlCodec implements Decoder for TOML documents.
type tomlCodec struct{}

// Decode decodes the TOML-encoded data into the value pointed to by v.
func (tomlCodec) Decode(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// DetectFormat maps a manifest file path to its format by extension:
// .yaml and .yml are YAML, .toml is TOML.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: cannot detect format of %q", ErrUnknownFormat, path)
	}
}
