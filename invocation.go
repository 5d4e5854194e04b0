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

import (
	"errors"
	"strings"

	"rivaas.dev/command/args"
	"rivaas.dev/command/binding"
)

// Invocation is the fully evaluated form of one argument vector: the
// resolution against the route graph, the tokenized option region, and the
// bound parameter values. Handlers receive everything they need from here;
// the engine itself never executes them.
type Invocation struct {
	// Resolution is the graph walk result. Only a Matched outcome carries
	// Parsed and Bound.
	Resolution Resolution

	// Parsed is the tokenized option region of the invocation, including
	// any parse diagnostics (Matched only).
	Parsed *args.Result

	// Bound holds the per-parameter values after route values, options,
	// and positional fallback were merged (Matched only).
	Bound *binding.Bound

	// Diagnostics are the parse diagnostics, lifted out of Parsed for
	// convenience.
	Diagnostics []args.Diagnostic
}

// Matched reports whether the argument vector resolved to a route.
func (inv *Invocation) Matched() bool {
	return inv.Resolution.Outcome == OutcomeMatched
}

// Route returns the matched route, or nil.
func (inv *Invocation) Route() *Route {
	return inv.Resolution.Route
}

// Evaluate runs the full pipeline on one argument vector: the leading run
// of command tokens is resolved against the route graph, the remainder is
// tokenized as options, and everything is bound against the matched
// route's schema.
//
// The command region ends at the first token with a "--" prefix (the bare
// "--" separator included); route resolution never sees option tokens.
// When a route matches without consuming the whole command region, the
// leftover tokens join the option region and bind as positionals.
//
// A non-Matched resolution is not an error: Evaluate returns the
// Invocation with its Resolution populated and a nil error, and the caller
// inspects the outcome. The returned error is the aggregate binding
// failure (*binding.MultiError) when binding ran and failed.
//
// Example:
//
//	inv, err := r.Evaluate([]string{"file", "copy", "a.txt", "--force"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if inv.Matched() {
//	    run(inv.Route().Handler(), inv.Bound)
//	}
func (r *Router) Evaluate(argv []string) (*Invocation, error) {
	head := argv
	for i, tok := range argv {
		if strings.HasPrefix(tok, "--") {
			head = argv[:i]
			break
		}
	}

	res := r.Resolve(head)
	inv := &Invocation{Resolution: res}
	if res.Outcome != OutcomeMatched {
		return inv, nil
	}
	rt := res.Route

	parseOpts := make([]args.ParseOption, 0, 4)
	parseOpts = append(parseOpts, args.WithKnown(rt.schema.Known()...))
	if rt.allowUnknown {
		parseOpts = append(parseOpts, args.WithAllowUnknown())
	}
	if r.caseSensitiveOptions {
		parseOpts = append(parseOpts, args.WithCaseSensitive())
	}
	if r.noSuggestions {
		parseOpts = append(parseOpts, args.WithoutSuggestions())
	}
	parsed := args.Parse(argv[res.Consumed:], parseOpts...)
	inv.Parsed = parsed
	inv.Diagnostics = parsed.Diagnostics

	bound, err := binding.Bind(rt.schema, res.Values, parsed)
	inv.Bound = bound

	var multi *binding.MultiError
	if errors.As(err, &multi) {
		for _, be := range multi.Errors {
			if errors.Is(be, binding.ErrUnknownOption) {
				r.emit(DiagUnknownOption, be.Error(), map[string]any{
					"route":      rt.name,
					"token":      be.Token,
					"suggestion": be.Suggestion,
				})
			}
		}
	}
	return inv, err
}
