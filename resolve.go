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
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Outcome classifies the result of resolving a token sequence.
type Outcome uint8

const (
	// OutcomeMatched means a registered route fully matched a prefix of the
	// input. Unconsumed tokens are reported in Resolution.Rest.
	OutcomeMatched Outcome = iota

	// OutcomePartial means the consumed tokens form a valid prefix of one or
	// more templates but no route was satisfied.
	OutcomePartial

	// OutcomeAmbiguous means a token abbreviated two or more sibling
	// literals and the resolver cannot choose between them.
	OutcomeAmbiguous

	// OutcomeNotFound means the first token matched nothing at the root.
	OutcomeNotFound
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomePartial:
		return "partial"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving one token sequence against the
// route graph. Non-matches are ordinary data, not errors: Partial feeds
// navigation, Ambiguous reports the colliding literals, NotFound reports
// the offending first token.
type Resolution struct {
	// Outcome classifies the result; it decides which fields are populated.
	Outcome Outcome

	// Route is the matched route (Matched only).
	Route *Route

	// Values maps parameter names to the raw tokens that matched them.
	// Absent optional parameters have no entry (Matched only).
	Values map[string]string

	// Consumed is the number of input tokens the graph walk consumed.
	Consumed int

	// Rest holds the input tokens beyond Consumed (Matched only); they
	// belong to the option region of the invocation.
	Rest []string

	// Token is the offending input token (Ambiguous and NotFound).
	Token string

	// Candidates lists what the graph accepts at the stopping point:
	// deeper literal commands on a match, expected next tokens on a
	// partial, the colliding literals on an ambiguity. Sorted
	// case-insensitively.
	Candidates []string
}

// resolve walks the token sequence through the graph. Literal edges are
// tried before dynamic edges at every step, and once an edge is taken the
// walk is committed to it; there is no backtracking across siblings. The
// deepest fully matched route wins, and shallower full matches are kept as
// fallback when deeper consumption dies mid-input.
func (g *graph) resolve(tokens []string) Resolution {
	cur := g.root
	var best *Route
	var bestNode *node
	bestDepth := 0

	for i, tok := range tokens {
		if cur.route != nil {
			best, bestNode, bestDepth = cur.route, cur, i
		}
		folded := fold(tok)
		if next := cur.literalExact(folded); next != nil {
			cur = next
			continue
		}
		if folded != "" {
			hits := cur.literalPrefix(folded)
			if len(hits) == 1 {
				cur = hits[0].node
				continue
			}
			if len(hits) > 1 {
				candidates := make([]string, 0, len(hits))
				for _, h := range hits {
					candidates = append(candidates, h.display)
				}
				sortFold(candidates)
				return Resolution{Outcome: OutcomeAmbiguous, Token: tok, Consumed: i, Candidates: candidates}
			}
		}
		if next := cur.dynamicMatch(tok, g.constraints); next != nil {
			cur = next
			continue
		}
		// The token matches no edge here.
		if best != nil {
			return g.matched(best, tokens, bestDepth, bestNode)
		}
		if i == 0 {
			return Resolution{Outcome: OutcomeNotFound, Token: tok}
		}
		return Resolution{Outcome: OutcomePartial, Consumed: i, Candidates: cur.expected()}
	}

	// Input exhausted.
	if cur.route != nil {
		return g.matched(cur.route, tokens, len(tokens), cur)
	}
	if rt := cur.completion(len(tokens)); rt != nil {
		return g.matched(rt, tokens, len(tokens), cur)
	}
	if best != nil {
		return g.matched(best, tokens, bestDepth, bestNode)
	}
	return Resolution{Outcome: OutcomePartial, Consumed: len(tokens), Candidates: cur.expected()}
}

// matched builds the Matched resolution for a route satisfied after depth
// tokens. Values come from the original input tokens, so an abbreviated
// literal still binds the parameter values the user actually typed.
func (g *graph) matched(rt *Route, tokens []string, depth int, at *node) Resolution {
	values := make(map[string]string, depth)
	for i := 0; i < depth; i++ {
		if seg := rt.template.Segments[i]; seg.Dynamic {
			values[seg.Name] = tokens[i]
		}
	}
	return Resolution{
		Outcome:    OutcomeMatched,
		Route:      rt,
		Values:     values,
		Consumed:   depth,
		Rest:       tokens[depth:],
		Candidates: at.literalCandidates(),
	}
}

// at walks a prefix without match precedence: every token must advance the
// graph. Used for navigation and completion, where the caller asks about a
// position rather than an invocation.
func (g *graph) at(prefix []string) ([]string, bool) {
	cur := g.root
	for _, tok := range prefix {
		folded := fold(tok)
		if next := cur.literalExact(folded); next != nil {
			cur = next
			continue
		}
		if folded != "" {
			if hits := cur.literalPrefix(folded); len(hits) == 1 {
				cur = hits[0].node
				continue
			} else if len(hits) > 1 {
				return nil, false
			}
		}
		if next := cur.dynamicMatch(tok, g.constraints); next != nil {
			cur = next
			continue
		}
		return nil, false
	}
	return cur.expected(), true
}

// Resolve resolves a token sequence against the current graph snapshot.
//
// The first call freezes the route set and builds the snapshot; afterwards
// Resolve is lock-free: it loads the snapshot pointer and walks immutable
// data. Concurrent Resolve calls during an Invalidate-triggered rebuild
// complete against whichever snapshot they loaded.
//
// Example:
//
//	res := r.Resolve([]string{"file", "copy", "a.txt", "b.txt"})
//	switch res.Outcome {
//	case command.OutcomeMatched:
//	    fmt.Println(res.Route.Name(), res.Values)
//	case command.OutcomeAmbiguous:
//	    fmt.Println("ambiguous:", res.Token, res.Candidates)
//	}
func (r *Router) Resolve(tokens []string) Resolution {
	g := r.snapshot()

	ctx := context.Background()
	var state any
	if r.observability != nil {
		ctx, state = r.observability.OnResolveStart(ctx, tokens)
	}

	res := g.resolve(tokens)

	name := ""
	if res.Route != nil {
		name = res.Route.Name()
	}
	if r.observability != nil && state != nil {
		r.observability.OnResolveEnd(ctx, state, res.Outcome.String(), name)
	}
	if r.metrics != nil {
		attrs := []attribute.KeyValue{attribute.String("command.outcome", res.Outcome.String())}
		if name != "" {
			attrs = append(attrs, attribute.String("command.route", name))
		}
		r.metrics.RecordResolution(ctx, res.Outcome.String(), attrs...)
	}
	return res
}

// At returns the candidate tokens at a graph position, for completion and
// menu-style navigation. The position is named by a prefix of command
// tokens; each must advance the graph (exact literal, unambiguous
// abbreviation, or an accepted parameter token). The second result is false
// when the prefix leaves the graph or abbreviates ambiguously.
//
// Like Resolve, the first call freezes the route set.
func (r *Router) At(prefix ...string) ([]string, bool) {
	return r.snapshot().at(prefix)
}
