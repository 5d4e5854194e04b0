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

// Package route compiles command route templates into typed segment
// sequences, evaluates segment constraints against input tokens, and
// detects registration-time ambiguity between templates.
//
// A route template is a whitespace-delimited sequence of tokens. A token
// matching {name}, {name?}, {name:constraint}, or {name?:constraint} is a
// dynamic segment; every other token is a literal matched case-insensitively.
//
// Example:
//
//	t, err := route.Parse("file copy {source} {dest?:string}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(t.MinArity(), t.MaxArity()) // 3 4
package route

import (
	"fmt"
	"strings"
)

// Segment is one token of a parsed route template: either a literal word or
// a dynamic, named parameter with an optional typed constraint.
type Segment struct {
	Value      string // Literal text as registered (literal segments only)
	Name       string // Parameter name (dynamic segments only)
	Kind       Kind   // Constraint kind (dynamic segments only)
	Constraint string // Constraint name as written in the template, empty for bare {name}
	Optional   bool   // True when the parameter may be omitted from input
	Dynamic    bool   // True for {name...} segments, false for literals
}

// Specificity ranks the segment's constraint for disambiguation: when
// several dynamic segments accept the same token, the highest specificity
// wins. Custom constraints rank above every built-in kind.
func (s Segment) Specificity() int {
	return int(s.Kind)
}

// String renders the segment back to its template-token form, preserving
// the constraint spelling used at registration.
func (s Segment) String() string {
	if !s.Dynamic {
		return s.Value
	}
	var b strings.Builder
	b.WriteByte('{')
	b.WriteString(s.Name)
	if s.Optional {
		b.WriteByte('?')
	}
	if s.Constraint != "" {
		b.WriteByte(':')
		b.WriteString(s.Constraint)
	}
	b.WriteByte('}')
	return b.String()
}

// Template is a parsed route template: the original text plus its ordered
// segment sequence. Templates are immutable once parsed.
type Template struct {
	Raw      string    // Template text as supplied to Parse
	Segments []Segment // Parsed segments in order
}

// MinArity returns the number of tokens the template requires: the count of
// its non-optional segments.
func (t *Template) MinArity() int {
	n := 0
	for _, seg := range t.Segments {
		if !seg.Optional {
			n++
		}
	}
	return n
}

// MaxArity returns the number of tokens the template can consume: its total
// segment count.
func (t *Template) MaxArity() int {
	return len(t.Segments)
}

// String renders the template in canonical form: segments joined by single
// spaces. Parsing the result yields an identical segment sequence.
func (t *Template) String() string {
	parts := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		parts[i] = seg.String()
	}
	return strings.Join(parts, " ")
}

type parseConfig struct {
	custom *Constraints
}

// ParseOption configures template parsing.
type ParseOption func(*parseConfig)

// WithConstraints supplies the custom constraint registry consulted when a
// constraint name is not a built-in kind. Without it, only built-in names
// parse.
func WithConstraints(c *Constraints) ParseOption {
	return func(cfg *parseConfig) {
		cfg.custom = c
	}
}

// Parse compiles a route template into its segment sequence.
//
// Tokens are split on whitespace. A token of the exact shape {body} with a
// non-empty, brace-free body is dynamic: the body splits once on ":" into a
// parameter name (a trailing "?" marks it optional) and an optional
// constraint name. Constraint names resolve case-insensitively against the
// built-in kinds and their synonyms, then against the registry supplied via
// WithConstraints. Every other token is a literal.
//
// Parse fails with a *ParseError wrapping a package sentinel when the
// template is empty, a segment body is empty or malformed, a parameter name
// is missing, a constraint name is unknown, or a required segment follows an
// optional one.
func Parse(template string, opts ...ParseOption) (*Template, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tokens := strings.Fields(template)
	if len(tokens) == 0 {
		return nil, &ParseError{Template: template, Err: ErrEmptyTemplate}
	}

	segments := make([]Segment, 0, len(tokens))
	sawOptional := false
	for _, tok := range tokens {
		seg, err := parseSegment(tok, cfg.custom)
		if err != nil {
			return nil, &ParseError{Template: template, Token: tok, Err: err}
		}
		if sawOptional && !(seg.Dynamic && seg.Optional) {
			return nil, &ParseError{Template: template, Token: tok, Err: ErrOptionalOrder}
		}
		if seg.Optional {
			sawOptional = true
		}
		segments = append(segments, seg)
	}

	return &Template{Raw: template, Segments: segments}, nil
}

// MustParse is like Parse but panics on error. It simplifies variable
// initialization for templates known to be valid.
func MustParse(template string, opts ...ParseOption) *Template {
	t, err := Parse(template, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// parseSegment classifies one template token. Tokens matching {body} with a
// brace-free body are dynamic; "{}" is rejected; everything else is literal.
func parseSegment(tok string, custom *Constraints) (Segment, error) {
	if len(tok) < 2 || tok[0] != '{' || tok[len(tok)-1] != '}' {
		return Segment{Value: tok}, nil
	}
	body := tok[1 : len(tok)-1]
	if body == "" {
		return Segment{}, ErrEmptySegment
	}
	if strings.ContainsAny(body, "{}") {
		// Nested braces never form a dynamic segment; the token is literal.
		return Segment{Value: tok}, nil
	}

	name := body
	constraint := ""
	if i := strings.IndexByte(body, ':'); i >= 0 {
		if strings.IndexByte(body[i+1:], ':') >= 0 {
			return Segment{}, ErrMalformedSegment
		}
		name, constraint = body[:i], body[i+1:]
		if constraint == "" {
			return Segment{}, ErrMalformedSegment
		}
	}

	optional := strings.HasSuffix(name, "?")
	if optional {
		name = name[:len(name)-1]
	}
	if name == "" {
		return Segment{}, ErrEmptyParameterName
	}

	seg := Segment{Name: name, Optional: optional, Dynamic: true, Constraint: constraint}
	if constraint == "" {
		seg.Kind = KindString
		return seg, nil
	}
	if kind, ok := KindOf(constraint); ok {
		seg.Kind = kind
		return seg, nil
	}
	if custom.Has(constraint) {
		seg.Kind = KindCustom
		return seg, nil
	}
	return Segment{}, fmt.Errorf("%w: %q", ErrUnknownConstraint, constraint)
}
