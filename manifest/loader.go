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
	"os"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Load reads and decodes a manifest file. The format is detected from the
// file extension and environment references in the path are expanded, so
// "$HOME/commands.yaml" works as expected.
func Load(path string) (*Document, error) {
	path = os.ExpandEnv(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

// Decode parses manifest data in the given format into a normalized,
// validated Document.
func Decode(data []byte, format Format) (*Document, error) {
	decoder, err := GetDecoder(format)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := decoder.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s manifest: %w", format, err)
	}

	doc := &Document{}
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           doc,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       scalarToStringHook(),
	})
	if err != nil {
		return nil, fmt.Errorf("build manifest decoder: %w", err)
	}
	if err := md.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode manifest structure: %w", err)
	}

	if err := doc.normalize(); err != nil {
		return nil, err
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// scalarToStringHook coerces scalar document values into string fields, so
// a YAML "version: 1.2" or a TOML numeric value alias lands as its text
// form rather than failing the decode.
func scalarToStringHook() mapstructure.DecodeHookFuncKind {
	return func(from reflect.Kind, to reflect.Kind, data any) (any, error) {
		if to != reflect.String {
			return data, nil
		}
		switch from {
		case reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return cast.ToStringE(data)
		default:
			return data, nil
		}
	}
}
