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

// Package binding declares option schemas and binds parsed invocations
// against them. A schema is an explicit, declarative description of a
// command's parameters: canonical names, aliases, injecting aliases, arity,
// and case rules. Binding gathers route values, option values, and
// positional fallbacks into per-parameter results without ever panicking;
// failures aggregate into a MultiError for the dispatcher to present.
package binding

import (
	"fmt"
	"slices"
	"strings"
)

// reverseValue is injected by a reverse alias (negated flag semantics).
const reverseValue = "false"

// Arity states how many values a parameter may legally receive.
type Arity uint8

const (
	// ZeroOrOne permits at most one value (optional scalar, the default).
	ZeroOrOne Arity = iota

	// ExactlyOne requires exactly one value.
	ExactlyOne

	// ZeroOrMore permits any number of values, including none.
	ZeroOrMore

	// OneOrMore requires at least one value.
	OneOrMore
)

// String returns a readable arity name.
func (a Arity) String() string {
	switch a {
	case ZeroOrOne:
		return "zero-or-one"
	case ExactlyOne:
		return "exactly-one"
	case ZeroOrMore:
		return "zero-or-more"
	case OneOrMore:
		return "one-or-more"
	default:
		return "unknown"
	}
}

// Mode states which invocation surfaces may supply a parameter's value.
type Mode uint8

const (
	// ModeOption binds from option tokens only (the default).
	ModeOption Mode = iota

	// ModePositional binds from positional arguments only; the parameter's
	// name is not a recognized option token.
	ModePositional

	// ModeEither binds from option tokens first, falling back to positional
	// arguments when no option supplied a value.
	ModeEither
)

// String returns a readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeOption:
		return "option"
	case ModePositional:
		return "positional"
	case ModeEither:
		return "either"
	default:
		return "unknown"
	}
}

// Parameter describes one command parameter. Callers supply these
// descriptors explicitly at registration time; the engine never inspects
// handler signatures.
//
// The canonical Name and each Alias read a value from input. Each
// ReverseAlias injects the fixed value "false", and each ValueAliases token
// injects its mapped value; injecting tokens never read a value.
type Parameter struct {
	Name           string
	Aliases        []string
	ReverseAliases []string
	ValueAliases   map[string]string
	Arity          Arity
	Mode           Mode
	CaseSensitive  *bool // overrides the schema's case rule when set
	Usage          string
}

// Entry is one recognized option token, resolved to its parameter. Injects
// marks tokens that supply Value themselves instead of reading input.
type Entry struct {
	Token         string
	Parameter     string
	Injects       bool
	Value         string
	CaseSensitive *bool
}

// Schema is an immutable set of parameters and their recognized tokens.
// Construct one with NewSchema during configuration; afterwards it is safe
// for concurrent use by any number of Bind calls.
type Schema struct {
	params        []Parameter
	entries       []Entry
	paramIndex    map[string]int
	caseSensitive bool
	allowUnknown  bool
	noSuggest     bool
}

// SchemaOption configures schema construction.
type SchemaOption func(*Schema)

// WithCaseSensitive makes token matching case-sensitive by default.
// Individual parameters can still override via Parameter.CaseSensitive.
func WithCaseSensitive() SchemaOption {
	return func(s *Schema) {
		s.caseSensitive = true
	}
}

// WithAllowUnknown tolerates option names no entry recognizes: Bind skips
// them instead of reporting an unknown-option error.
func WithAllowUnknown() SchemaOption {
	return func(s *Schema) {
		s.allowUnknown = true
	}
}

// WithoutSuggestions disables did-you-mean lookups on unknown-option bind
// errors. The errors themselves are still reported.
func WithoutSuggestions() SchemaOption {
	return func(s *Schema) {
		s.noSuggest = true
	}
}

// NewSchema builds a schema from the declared parameters.
//
// Construction fails fast on configuration errors: an empty or duplicate
// parameter name, a token containing separator characters or a dash prefix,
// a duplicate token within or across parameters under the tokens' effective
// case rules, or option tokens declared on a positional-only parameter.
//
// Example:
//
//	schema, err := binding.NewSchema([]binding.Parameter{
//	    {Name: "source", Mode: binding.ModeEither, Arity: binding.ExactlyOne},
//	    {Name: "verbose", Aliases: []string{"v"}, ReverseAliases: []string{"quiet"}},
//	})
func NewSchema(params []Parameter, opts ...SchemaOption) (*Schema, error) {
	s := &Schema{
		params:     slices.Clone(params),
		paramIndex: make(map[string]int, len(params)),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, p := range s.params {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("parameter %d: %w", i, ErrEmptyParameterName)
		}
		if _, exists := s.paramIndex[p.Name]; exists {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, ErrDuplicateParameter)
		}
		s.paramIndex[p.Name] = i

		if p.Mode == ModePositional {
			if len(p.Aliases) > 0 || len(p.ReverseAliases) > 0 || len(p.ValueAliases) > 0 {
				return nil, fmt.Errorf("parameter %q: %w", p.Name, ErrPositionalTokens)
			}
			continue
		}

		if err := s.addEntry(Entry{Token: p.Name, Parameter: p.Name, CaseSensitive: p.CaseSensitive}); err != nil {
			return nil, err
		}
		for _, alias := range p.Aliases {
			if err := s.addEntry(Entry{Token: alias, Parameter: p.Name, CaseSensitive: p.CaseSensitive}); err != nil {
				return nil, err
			}
		}
		for _, alias := range p.ReverseAliases {
			entry := Entry{Token: alias, Parameter: p.Name, Injects: true, Value: reverseValue, CaseSensitive: p.CaseSensitive}
			if err := s.addEntry(entry); err != nil {
				return nil, err
			}
		}
		for _, alias := range sortedKeys(p.ValueAliases) {
			entry := Entry{Token: alias, Parameter: p.Name, Injects: true, Value: p.ValueAliases[alias], CaseSensitive: p.CaseSensitive}
			if err := s.addEntry(entry); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// MustNewSchema is like NewSchema but panics on error. It simplifies
// variable initialization for schemas known to be valid.
func MustNewSchema(params []Parameter, opts ...SchemaOption) *Schema {
	s, err := NewSchema(params, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// addEntry validates one token and appends it to the entry set.
// Two entries collide when their case rules agree and the tokens are equal
// under that rule, or when the rules differ and the tokens are byte-equal.
// Fold-equal tokens under differing rules coexist: Resolve may legitimately
// return both for one raw input.
func (s *Schema) addEntry(entry Entry) error {
	token := entry.Token
	if token == "" || strings.HasPrefix(token, "-") || strings.ContainsAny(token, "=: \t") {
		return fmt.Errorf("parameter %q, token %q: %w", entry.Parameter, token, ErrInvalidToken)
	}

	for _, existing := range s.entries {
		if tokensCollide(existing, entry, s.caseSensitive) {
			return fmt.Errorf("parameter %q, token %q: %w (already bound to parameter %q)",
				entry.Parameter, token, ErrDuplicateToken, existing.Parameter)
		}
	}

	s.entries = append(s.entries, entry)
	return nil
}

func tokensCollide(a, b Entry, schemaDefault bool) bool {
	aSensitive := effectiveCase(a, schemaDefault)
	bSensitive := effectiveCase(b, schemaDefault)
	if aSensitive != bSensitive {
		return a.Token == b.Token
	}
	if aSensitive {
		return a.Token == b.Token
	}
	return strings.EqualFold(a.Token, b.Token)
}

func effectiveCase(e Entry, schemaDefault bool) bool {
	if e.CaseSensitive != nil {
		return *e.CaseSensitive
	}
	return schemaDefault
}

// Resolve returns every entry the raw token matches under the entries'
// effective case rules, in declaration order. Distinct entries can match
// one token when their case rules differ; an unrecognized token resolves
// to nil.
func (s *Schema) Resolve(token string) []Entry {
	var matched []Entry
	for _, entry := range s.entries {
		if effectiveCase(entry, s.caseSensitive) {
			if entry.Token == token {
				matched = append(matched, entry)
			}
		} else if strings.EqualFold(entry.Token, token) {
			matched = append(matched, entry)
		}
	}
	return matched
}

// Known returns every recognized option token in declaration order,
// suitable for feeding args.WithKnown or suggestion candidates.
func (s *Schema) Known() []string {
	known := make([]string, len(s.entries))
	for i, entry := range s.entries {
		known[i] = entry.Token
	}
	return known
}

// Parameters returns the declared parameters in order. The slice is a copy;
// mutating it does not affect the schema.
func (s *Schema) Parameters() []Parameter {
	return slices.Clone(s.params)
}

// AllowsUnknown reports whether the schema tolerates unrecognized options.
func (s *Schema) AllowsUnknown() bool {
	return s.allowUnknown
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
