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

import "strings"

// Validate checks a template pair for registration-time ambiguity.
//
// Two templates can only conflict when their [MinArity, MaxArity] token
// ranges overlap. For the overlapping prefix, segments are compared
// pairwise: two literals are ambiguous only when equal case-insensitively;
// a literal against a dynamic segment is never ambiguous (the literal wins
// precedence at resolution); two dynamic segments are ambiguous only when
// they share a constraint kind and, for custom constraints, the constraint
// name. The pair is rejected only when every overlapping position is
// ambiguous, which is exactly the condition under which both templates
// could match one token sequence.
//
// Validate returns nil when the pair may coexist, or a *ConflictError
// naming both templates.
func Validate(tmpl, existing *Template) error {
	if tmpl.MaxArity() < existing.MinArity() || existing.MaxArity() < tmpl.MinArity() {
		return nil
	}

	n := min(len(tmpl.Segments), len(existing.Segments))
	for i := 0; i < n; i++ {
		if !ambiguousAt(tmpl.Segments[i], existing.Segments[i]) {
			return nil
		}
	}
	return &ConflictError{Template: tmpl.Raw, Existing: existing.Raw}
}

// ambiguousAt reports whether two segments at the same position could both
// match one token.
func ambiguousAt(a, b Segment) bool {
	if !a.Dynamic && !b.Dynamic {
		return strings.EqualFold(a.Value, b.Value)
	}
	if a.Dynamic != b.Dynamic {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindCustom {
		return strings.EqualFold(a.Constraint, b.Constraint)
	}
	return true
}
