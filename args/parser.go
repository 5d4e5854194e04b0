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

// Package args tokenizes flat invocation argument lists into named options,
// positional arguments, and diagnostics. Tokenizing is independent of any
// option schema: the same grammar applies whether or not a known-option set
// is supplied, and problems are collected as diagnostics instead of errors.
package args

import (
	"fmt"
	"strings"
)

// FlagValue is the value recorded for a bare option token with no value of
// its own (flag semantics).
const FlagValue = "true"

// Severity classifies a parse diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one problem found while tokenizing an argument list.
// Parsing never fails; problems accumulate on the Result as data.
type Diagnostic struct {
	Severity   Severity
	Message    string
	Token      string // the input token that produced the diagnostic
	Suggestion string // nearest known option name, when one is close enough
}

// Option is one named option with its values accumulated in encounter
// order. Repeated occurrences of the same name, under the configured case
// rule, extend Values rather than adding a second Option.
type Option struct {
	Name   string
	Values []string
}

// Result holds the outcome of tokenizing one argument list. Options keep
// their first-seen spelling and encounter order; Positionals keep input
// order.
type Result struct {
	Options     []Option
	Positionals []string
	Diagnostics []Diagnostic

	caseSensitive bool
}

// Values returns the accumulated values for the named option, or nil when
// the option was not supplied. The name is matched under the case rule the
// Result was parsed with.
func (r *Result) Values(name string) []string {
	for i := range r.Options {
		if r.sameName(r.Options[i].Name, name) {
			return r.Options[i].Values
		}
	}
	return nil
}

// Value returns the last value supplied for the named option.
func (r *Result) Value(name string) (string, bool) {
	values := r.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// Has reports whether the named option was supplied at least once.
func (r *Result) Has(name string) bool {
	return len(r.Values(name)) > 0
}

// Ok reports whether parsing produced no error-severity diagnostics.
func (r *Result) Ok() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return false
		}
	}
	return true
}

func (r *Result) sameName(a, b string) bool {
	if r.caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

type parseConfig struct {
	known         []string
	hasKnown      bool
	allowUnknown  bool
	caseSensitive bool
	noSuggest     bool
}

// ParseOption configures one Parse call.
type ParseOption func(*parseConfig)

// WithKnown supplies the set of recognized option names. Once a known set
// is supplied, an option name outside it produces an error diagnostic with
// a best-effort suggestion, unless WithAllowUnknown is also given.
func WithKnown(names ...string) ParseOption {
	return func(cfg *parseConfig) {
		cfg.known = names
		cfg.hasKnown = true
	}
}

// WithAllowUnknown tolerates option names outside the known set.
func WithAllowUnknown() ParseOption {
	return func(cfg *parseConfig) {
		cfg.allowUnknown = true
	}
}

// WithCaseSensitive makes known-name matching, option accumulation, and
// Result lookups case-sensitive. The default is case-insensitive.
func WithCaseSensitive() ParseOption {
	return func(cfg *parseConfig) {
		cfg.caseSensitive = true
	}
}

// WithoutSuggestions disables did-you-mean lookups on unknown-option
// diagnostics. Unknown names still produce error diagnostics.
func WithoutSuggestions() ParseOption {
	return func(cfg *parseConfig) {
		cfg.noSuggest = true
	}
}

// Parse tokenizes a flat argument list in a single left-to-right pass.
//
// A bare "--" switches all subsequent tokens to forced-positional mode and
// is itself recorded as a positional. Outside that mode, a token without a
// "--" prefix is positional; "--name=value" and "--name:value" yield the
// named option with that value, split at the earliest separator; a bare
// "--name" consumes the following token as its value unless that token also
// starts with "--", in which case the value is the literal "true".
// Repeated occurrences of one option accumulate values in encounter order.
//
// Parse never panics and never returns an error: unknown names (when a
// known set is enforced) and malformed tokens surface as diagnostics.
//
// Example:
//
//	res := args.Parse([]string{"--out", "a.txt", "--tag=x", "--tag=y", "in.txt"})
//	res.Value("out")    // "a.txt", true
//	res.Values("tag")   // ["x", "y"]
//	res.Positionals     // ["in.txt"]
func Parse(tokens []string, opts ...ParseOption) *Result {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	res := &Result{caseSensitive: cfg.caseSensitive}
	index := make(map[string]int)
	forced := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case forced:
			res.Positionals = append(res.Positionals, tok)
			continue
		case tok == "--":
			// The separator is itself positional, and everything after it is.
			forced = true
			res.Positionals = append(res.Positionals, tok)
			continue
		case !strings.HasPrefix(tok, "--"):
			res.Positionals = append(res.Positionals, tok)
			continue
		}

		name := tok[2:]
		value := ""
		hasValue := false
		if j := strings.IndexAny(name, "=:"); j >= 0 {
			name, value, hasValue = name[:j], name[j+1:], true
		}
		if name == "" {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Message:  fmt.Sprintf("malformed option token %q", tok),
				Token:    tok,
			})
			continue
		}
		if !hasValue {
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "--") {
				i++
				value = tokens[i]
			} else {
				value = FlagValue
			}
		}

		if cfg.hasKnown && !cfg.allowUnknown && !isKnown(name, cfg.known, cfg.caseSensitive) {
			d := Diagnostic{
				Severity: SeverityError,
				Message:  fmt.Sprintf("unknown option --%s", name),
				Token:    tok,
			}
			if !cfg.noSuggest {
				if s := Suggest(name, cfg.known); s != "" {
					d.Suggestion = s
					d.Message = fmt.Sprintf("unknown option --%s, did you mean --%s?", name, s)
				}
			}
			res.Diagnostics = append(res.Diagnostics, d)
		}

		key := name
		if !cfg.caseSensitive {
			key = strings.ToLower(name)
		}
		if at, seen := index[key]; seen {
			res.Options[at].Values = append(res.Options[at].Values, value)
		} else {
			index[key] = len(res.Options)
			res.Options = append(res.Options, Option{Name: name, Values: []string{value}})
		}
	}

	return res
}

func isKnown(name string, known []string, caseSensitive bool) bool {
	for _, k := range known {
		if caseSensitive {
			if k == name {
				return true
			}
		} else if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
