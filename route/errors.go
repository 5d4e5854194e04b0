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

package route

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTemplate indicates that a route template contains no tokens.
	ErrEmptyTemplate = errors.New("route template is empty")

	// ErrEmptySegment indicates that a dynamic segment has an empty body ("{}").
	ErrEmptySegment = errors.New("dynamic segment body is empty")

	// ErrMalformedSegment indicates that a dynamic segment body has more
	// colon-delimited parts than name and constraint.
	ErrMalformedSegment = errors.New("dynamic segment is malformed")

	// ErrEmptyParameterName indicates that a dynamic segment has no parameter name.
	ErrEmptyParameterName = errors.New("dynamic segment parameter name is empty")

	// ErrUnknownConstraint indicates that a constraint name is neither a
	// built-in kind nor a registered custom constraint.
	ErrUnknownConstraint = errors.New("unknown constraint")

	// ErrOptionalOrder indicates that a required segment follows an optional one.
	ErrOptionalOrder = errors.New("required segment follows an optional segment")

	// ErrAmbiguousRoute indicates that two route templates could both match
	// the same token sequence.
	ErrAmbiguousRoute = errors.New("ambiguous route")

	// ErrEmptyConstraintName indicates that a custom constraint was registered
	// without a name.
	ErrEmptyConstraintName = errors.New("constraint name is empty")

	// ErrNilPredicate indicates that a custom constraint was registered with a
	// nil predicate function.
	ErrNilPredicate = errors.New("constraint predicate is nil")

	// ErrReservedConstraint indicates that a custom constraint name collides
	// with a built-in constraint kind.
	ErrReservedConstraint = errors.New("constraint name is reserved")

	// ErrDuplicateConstraint indicates that a custom constraint name is
	// already registered.
	ErrDuplicateConstraint = errors.New("constraint already registered")
)

// ParseError describes why a route template failed to parse.
// It wraps one of the package sentinel errors and identifies the template
// and, where relevant, the offending token.
type ParseError struct {
	Template string // Original template text
	Token    string // Offending token, empty when the whole template is at fault
	Err      error  // Underlying sentinel error
}

// Error returns a human-readable description of the parse failure.
func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse route template %q: token %q: %v", e.Template, e.Token, e.Err)
	}
	return fmt.Sprintf("parse route template %q: %v", e.Template, e.Err)
}

// Unwrap returns the underlying sentinel error for errors.Is checks.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConflictError reports a registration-time ambiguity between two route
// templates. Both templates are named so the caller can correct either.
type ConflictError struct {
	Template string // Template being registered
	Existing string // Previously registered template it conflicts with
}

// Error returns a human-readable description naming both templates.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("ambiguous route: %q conflicts with registered template %q", e.Template, e.Existing)
}

// Unwrap returns ErrAmbiguousRoute for errors.Is checks.
func (e *ConflictError) Unwrap() error {
	return ErrAmbiguousRoute
}
