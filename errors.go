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

package command

import "errors"

var (
	// ErrFrozen indicates that registration was attempted after the route
	// set was frozen.
	ErrFrozen = errors.New("routes are frozen")

	// ErrNilHandler indicates that a route was registered without a handler.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrNilLogger indicates that the router was configured with a nil logger.
	ErrNilLogger = errors.New("logger must not be nil")

	// ErrDuplicateRouteName indicates that a route name is already taken.
	ErrDuplicateRouteName = errors.New("duplicate route name")
)
