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
	"fmt"
	"slices"
	"strings"
)

// Module is a registration scope: routes registered through it share a
// command-token prefix, carry the module's id, and follow its presence
// predicate. Modules nest; a child inherits and extends its parent's
// prefix, id, and predicate.
//
// A module is configuration-phase machinery only. Once the router freezes,
// the module has done its work; disabling a module later (via its predicate
// and Invalidate) excludes its routes from resolution without touching the
// registered set.
//
// Example:
//
//	cluster := r.Module("cluster", command.WithPrefix("cluster"))
//	cluster.MustRegister("join {address}", joinHandler)  // cluster join {address}
//	nodes := cluster.Module("nodes", command.WithPrefix("nodes"))
//	nodes.MustRegister("drain {id:guid}", drainHandler)  // cluster nodes drain {id:guid}
type Module struct {
	router  *Router
	id      string
	prefix  []string
	enabled func() bool
}

// Module creates a registration scope on the router.
func (r *Router) Module(id string, opts ...ModuleOption) *Module {
	m := &Module{router: r, id: id}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Module creates a nested scope under this module. The child id is the
// parent id and the given id joined with a dot, and the child inherits the
// parent's prefix tokens and presence predicate before its own options
// apply.
func (m *Module) Module(id string, opts ...ModuleOption) *Module {
	child := &Module{
		router:  m.router,
		id:      joinModuleIDs(m.id, id),
		prefix:  slices.Clone(m.prefix),
		enabled: m.enabled,
	}
	for _, opt := range opts {
		opt(child)
	}
	return child
}

// ID returns the module's full id, dot-joined through its ancestors.
func (m *Module) ID() string {
	return m.id
}

// Register adds a route through the module: the module prefix is prepended
// to the template and the route is attributed to the module. All Register
// semantics of the router apply unchanged.
func (m *Module) Register(template string, handler Handler, opts ...RouteOption) (*Route, error) {
	return m.router.register(m.fullTemplate(template), handler, m.id, m.enabled, opts)
}

// MustRegister is like Register but panics on error.
func (m *Module) MustRegister(template string, handler Handler, opts ...RouteOption) *Route {
	rt, err := m.Register(template, handler, opts...)
	if err != nil {
		panic(fmt.Sprintf("command.MustRegister: %v", err))
	}
	return rt
}

// fullTemplate joins the module's prefix tokens and the template text. An
// empty template registers the bare prefix itself.
func (m *Module) fullTemplate(template string) string {
	if len(m.prefix) == 0 {
		return template
	}
	parts := make([]string, 0, len(m.prefix)+1)
	parts = append(parts, m.prefix...)
	if template != "" {
		parts = append(parts, template)
	}
	return strings.Join(parts, " ")
}

func joinModuleIDs(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "." + child
	}
}
