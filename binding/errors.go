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

package binding

import (
	"errors"
	"fmt"
)

// Static errors for schema construction. These are configuration errors and
// must fail registration before any command is served.
var (
	ErrEmptyParameterName = errors.New("parameter name is empty")
	ErrDuplicateParameter = errors.New("duplicate parameter name")
	ErrInvalidToken       = errors.New("invalid option token")
	ErrDuplicateToken     = errors.New("duplicate option token")
	ErrPositionalTokens   = errors.New("positional-only parameter declares option tokens")
)

// Static errors wrapped by BindError values. Use errors.Is against the
// aggregated bind result to classify failures.
var (
	ErrUnknownOption      = errors.New("unknown option")
	ErrInjectedValue      = errors.New("value supplied to injecting alias")
	ErrUnexpectedArgument = errors.New("unexpected argument")
	ErrArity              = errors.New("arity violation")
)

// BindError represents one binding failure with parameter-level context.
//
// Use [errors.As] to check for BindError:
//
//	var bindErr *binding.BindError
//	if errors.As(err, &bindErr) {
//	    fmt.Printf("Parameter: %s, Reason: %s\n", bindErr.Parameter, bindErr.Reason)
//	}
type BindError struct {
	Parameter  string // parameter that failed binding, if known
	Token      string // option name or positional token involved
	Value      string // the offending value, if any
	Reason     string // human-readable reason for failure
	Suggestion string // nearest recognized token for unknown options
	Err        error  // classifying static error
}

// Error returns a formatted error message with contextual hints.
func (e *BindError) Error() string {
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}

	var base string
	switch {
	case e.Parameter != "":
		base = fmt.Sprintf("binding parameter %q: %s", e.Parameter, reason)
	case e.Token != "":
		base = fmt.Sprintf("binding token %q: %s", e.Token, reason)
	default:
		base = "binding: " + reason
	}

	if hint := e.hint(); hint != "" {
		base += " (hint: " + hint + ")"
	}
	return base
}

// hint returns a contextual hint for common invocation mistakes.
func (e *BindError) hint() string {
	switch {
	case e.Suggestion != "":
		return "did you mean --" + e.Suggestion + "?"
	case errors.Is(e.Err, ErrInjectedValue):
		return "this alias supplies its own fixed value; pass explicit values through the canonical option"
	case errors.Is(e.Err, ErrUnexpectedArgument):
		return "no declared parameter accepts this positional argument"
	default:
		return ""
	}
}

// Unwrap returns the classifying error for errors.Is/As compatibility.
func (e *BindError) Unwrap() error {
	return e.Err
}

// Code implements rivaas.dev/errors.ErrorCode.
func (e *BindError) Code() string {
	return "binding_error"
}

// MultiError aggregates every binding failure of one Bind call so the
// dispatcher can report them all at once.
//
// Use [errors.As] to check for MultiError:
//
//	var multi *binding.MultiError
//	if errors.As(err, &multi) {
//	    for _, e := range multi.Errors {
//	        // Handle each error
//	    }
//	}
type MultiError struct {
	Errors []*BindError
}

// Error returns a formatted error message.
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	return fmt.Sprintf("%d binding errors occurred", len(m.Errors))
}

// Unwrap returns all errors for errors.Is/As compatibility.
func (m *MultiError) Unwrap() []error {
	errs := make([]error, 0, len(m.Errors))
	for _, e := range m.Errors {
		errs = append(errs, e)
	}

	return errs
}

// Details implements rivaas.dev/errors.ErrorDetails.
func (m *MultiError) Details() any {
	return m.Errors
}

// Code implements rivaas.dev/errors.ErrorCode.
func (m *MultiError) Code() string {
	return "multiple_binding_errors"
}

// Add appends an error to the MultiError.
func (m *MultiError) Add(err *BindError) {
	m.Errors = append(m.Errors, err)
}

// HasErrors returns true if there are any errors.
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ErrorOrNil returns nil if there are no errors, otherwise returns the MultiError.
func (m *MultiError) ErrorOrNil() error {
	if !m.HasErrors() {
		return nil
	}

	return m
}
