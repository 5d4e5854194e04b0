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

import "errors"

var (
	// ErrUnknownFormat indicates that a manifest format has no registered
	// decoder, or that a file extension maps to no known format.
	ErrUnknownFormat = errors.New("unknown manifest format")

	// ErrEmptyRoute indicates a command entry without a route template.
	ErrEmptyRoute = errors.New("command route is empty")

	// ErrUnnamedOption indicates an option entry without a name.
	ErrUnnamedOption = errors.New("option name is empty")

	// ErrUnknownArity indicates an arity string that names no binding arity.
	ErrUnknownArity = errors.New("unknown arity")

	// ErrUnknownMode indicates a mode string that names no binding mode.
	ErrUnknownMode = errors.New("unknown binding mode")

	// ErrMissingHandler indicates that Apply found no handler for a command.
	ErrMissingHandler = errors.New("no handler for command")
)
