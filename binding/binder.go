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
	"fmt"

	"rivaas.dev/command/args"
)

// Source identifies where a bound parameter's first value came from.
type Source uint8

const (
	// SourceNone marks a parameter that received no value.
	SourceNone Source = iota

	// SourceRoute marks a value captured by a route template segment.
	SourceRoute

	// SourceOption marks a value read from an option token.
	SourceOption

	// SourceInjected marks a value supplied by an injecting alias.
	SourceInjected

	// SourcePositional marks a value taken from the positional fallback.
	SourcePositional
)

// String returns a readable source name.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceRoute:
		return "route"
	case SourceOption:
		return "option"
	case SourceInjected:
		return "injected"
	case SourcePositional:
		return "positional"
	default:
		return "unknown"
	}
}

// BoundParameter holds the gathered values for one parameter after Bind.
// Present reports whether any surface supplied a value; Source records the
// first surface that did.
type BoundParameter struct {
	Name    string
	Values  []string
	Present bool
	Source  Source
}

// Value returns the last gathered value, or "" when none was supplied.
// Last-wins matches the scalar semantics of repeated options.
func (p BoundParameter) Value() string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[len(p.Values)-1]
}

// Bound is the outcome of one Bind call: every declared parameter in
// declaration order, followed by route captures that matched no declared
// parameter, ordered by name.
type Bound struct {
	Parameters []BoundParameter
}

// Lookup returns the bound parameter with the given name.
func (b *Bound) Lookup(name string) (BoundParameter, bool) {
	for _, p := range b.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return BoundParameter{}, false
}

// Value returns the last value bound to name, or "" when the parameter is
// absent or received no value.
func (b *Bound) Value(name string) string {
	p, ok := b.Lookup(name)
	if !ok {
		return ""
	}
	return p.Value()
}

// Values returns every value bound to name in gathering order.
func (b *Bound) Values(name string) []string {
	p, ok := b.Lookup(name)
	if !ok {
		return nil
	}
	return p.Values
}

// Bind gathers values for every schema parameter from three surfaces in
// order: route captures, parsed options, and the positional fallback.
//
// Route captures bind first. A capture whose name matches a declared
// parameter seeds that parameter; the rest are appended to the result as
// extra parameters so handlers still see every captured segment.
//
// Options bind second. Each parsed option resolves against the schema's
// entries; reading entries append the option's values, injecting entries
// append their fixed value once per flag occurrence. An explicit value on
// an injecting token is an error, as is an unrecognized option unless the
// schema allows unknowns.
//
// The positional fallback runs last. Declared parameters whose mode admits
// positionals and which gathered nothing so far consume leftover
// positionals in declaration order: scalar arities take one, collection
// arities take all that remain. Positionals no parameter consumed are
// errors.
//
// Arity violations are checked at the end, one error per parameter. Bind
// never panics; all failures aggregate into the returned *MultiError, and
// the returned Bound is always usable, holding whatever was gathered
// before and between failures.
func Bind(schema *Schema, routeValues map[string]string, parsed *args.Result) (*Bound, error) {
	bound := &Bound{Parameters: make([]BoundParameter, len(schema.params))}
	index := make(map[string]int, len(schema.params))
	for i, p := range schema.params {
		bound.Parameters[i] = BoundParameter{Name: p.Name}
		index[p.Name] = i
	}
	errs := &MultiError{}

	gather := func(name string, source Source, values ...string) {
		i := index[name]
		bound.Parameters[i].Values = append(bound.Parameters[i].Values, values...)
		bound.Parameters[i].Present = true
		if bound.Parameters[i].Source == SourceNone {
			bound.Parameters[i].Source = source
		}
	}

	for _, name := range sortedKeys(routeValues) {
		if _, declared := index[name]; declared {
			gather(name, SourceRoute, routeValues[name])
			continue
		}
		bound.Parameters = append(bound.Parameters, BoundParameter{
			Name:    name,
			Values:  []string{routeValues[name]},
			Present: true,
			Source:  SourceRoute,
		})
	}

	var positionals []string
	if parsed != nil {
		positionals = parsed.Positionals
		for _, opt := range parsed.Options {
			entries := schema.Resolve(opt.Name)
			if len(entries) == 0 {
				if schema.allowUnknown {
					continue
				}
				suggestion := ""
				if !schema.noSuggest {
					suggestion = args.Suggest(opt.Name, schema.Known())
				}
				errs.Add(&BindError{
					Token:      opt.Name,
					Reason:     "unrecognized option",
					Suggestion: suggestion,
					Err:        ErrUnknownOption,
				})
				continue
			}
			for _, entry := range entries {
				for _, value := range opt.Values {
					switch {
					case !entry.Injects:
						gather(entry.Parameter, SourceOption, value)
					case value == args.FlagValue:
						gather(entry.Parameter, SourceInjected, entry.Value)
					default:
						errs.Add(&BindError{
							Parameter: entry.Parameter,
							Token:     opt.Name,
							Value:     value,
							Reason:    fmt.Sprintf("explicit value %q on injecting alias --%s", value, opt.Name),
							Err:       ErrInjectedValue,
						})
					}
				}
			}
		}
	}

	for i, p := range schema.params {
		if p.Mode == ModeOption || bound.Parameters[i].Present || len(positionals) == 0 {
			continue
		}
		switch p.Arity {
		case ZeroOrMore, OneOrMore:
			gather(p.Name, SourcePositional, positionals...)
			positionals = nil
		default:
			gather(p.Name, SourcePositional, positionals[0])
			positionals = positionals[1:]
		}
	}
	for _, leftover := range positionals {
		errs.Add(&BindError{
			Value:  leftover,
			Reason: fmt.Sprintf("unexpected argument %q", leftover),
			Err:    ErrUnexpectedArgument,
		})
	}

	for i, p := range schema.params {
		n := len(bound.Parameters[i].Values)
		var reason string
		switch {
		case p.Arity == ExactlyOne && n != 1:
			reason = fmt.Sprintf("expected exactly one value, got %d", n)
		case p.Arity == ZeroOrOne && n > 1:
			reason = fmt.Sprintf("expected at most one value, got %d", n)
		case p.Arity == OneOrMore && n < 1:
			reason = "expected at least one value, got none"
		default:
			continue
		}
		errs.Add(&BindError{Parameter: p.Name, Reason: reason, Err: ErrArity})
	}

	return bound, errs.ErrorOrNil()
}
