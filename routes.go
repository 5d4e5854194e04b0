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
	"slices"
	"strings"

	"rivaas.dev/command/binding"
)

// RouteInfo is an immutable projection of one registered route for
// introspection: help output, completion, and documentation generators
// consume it without touching router internals.
type RouteInfo struct {
	Name     string        // Route name (WithName or canonical template)
	Template string        // Canonical template text
	Module   string        // Module id, empty for direct registrations
	Segments []SegmentInfo // Template segments in order
	Options  []OptionInfo  // Declared option parameters in order
}

// SegmentInfo describes one template segment.
type SegmentInfo struct {
	Text       string // Token text; dynamics render as {name?:constraint}
	Name       string // Parameter name (dynamic segments only)
	Kind       string // Constraint kind name (dynamic segments only)
	Constraint string // Constraint name as written, empty for bare {name}
	Optional   bool
	Dynamic    bool
}

// OptionInfo describes one declared option parameter.
type OptionInfo struct {
	Name           string
	Aliases        []string
	ReverseAliases []string
	ValueAliases   []string // Recognized value-alias tokens, sorted
	Arity          string
	Mode           string
	Usage          string
}

// Routes returns a projection of every registered route, including routes
// of currently disabled modules, sorted by name. The result shares nothing
// with the router and is safe to retain.
func (r *Router) Routes() []RouteInfo {
	r.mu.Lock()
	routes := make([]*Route, len(r.routes))
	copy(routes, r.routes)
	r.mu.Unlock()

	infos := make([]RouteInfo, 0, len(routes))
	for _, rt := range routes {
		infos = append(infos, describeRoute(rt))
	}
	slices.SortFunc(infos, func(a, b RouteInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos
}

func describeRoute(rt *Route) RouteInfo {
	info := RouteInfo{
		Name:     rt.name,
		Template: rt.template.String(),
		Module:   rt.module,
		Segments: make([]SegmentInfo, 0, len(rt.template.Segments)),
	}
	for _, seg := range rt.template.Segments {
		si := SegmentInfo{
			Text:       seg.String(),
			Name:       seg.Name,
			Constraint: seg.Constraint,
			Optional:   seg.Optional,
			Dynamic:    seg.Dynamic,
		}
		if seg.Dynamic {
			si.Kind = seg.Kind.String()
		}
		info.Segments = append(info.Segments, si)
	}
	for _, p := range rt.schema.Parameters() {
		info.Options = append(info.Options, describeParameter(p))
	}
	return info
}

func describeParameter(p binding.Parameter) OptionInfo {
	valueAliases := make([]string, 0, len(p.ValueAliases))
	for token := range p.ValueAliases {
		valueAliases = append(valueAliases, token)
	}
	slices.Sort(valueAliases)
	return OptionInfo{
		Name:           p.Name,
		Aliases:        slices.Clone(p.Aliases),
		ReverseAliases: slices.Clone(p.ReverseAliases),
		ValueAliases:   valueAliases,
		Arity:          p.Arity.String(),
		Mode:           p.Mode.String(),
		Usage:          p.Usage,
	}
}
