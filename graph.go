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
	"sync/atomic"
	"unsafe"

	"rivaas.dev/command/route"
)

// graph is one immutable resolution snapshot. It is built wholesale from the
// registered routes and never mutated afterwards, so any number of
// resolutions can read it without synchronization.
type graph struct {
	root        *node
	constraints *route.Constraints
	routeCount  int // routes included in this snapshot
}

// node is one position in the resolution graph: the state after consuming a
// particular template prefix. Literal edges are matched before dynamic edges.
type node struct {
	edges    []edge        // literal edges in registration order
	dynamics []dynamicEdge // dynamic edges, sorted by specificity after build
	route    *Route        // route whose template ends exactly here, if any
	routes   []*Route      // routes whose templates pass through this node
}

// edge is a literal transition. The label is the folded (lowercased) literal
// used for matching; display preserves the first registered spelling for
// candidate lists.
type edge struct {
	label   string
	display string
	node    *node
}

// dynamicEdge is a parameter transition. Routes sharing a prefix merge into
// one edge per constraint kind (and, for custom constraints, per constraint
// name); seg is the segment of the first route that created the edge.
type dynamicEdge struct {
	seg   route.Segment
	node  *node
	order int // registration index of the creating route
}

func fold(s string) string {
	return strings.ToLower(s)
}

// literalChild returns the child node for the literal value, creating the
// edge when it does not exist yet.
func (n *node) literalChild(value string) *node {
	label := fold(value)
	for i := range n.edges {
		if n.edges[i].label == label {
			return n.edges[i].node
		}
	}
	child := &node{}
	n.edges = append(n.edges, edge{label: label, display: value, node: child})
	return child
}

// dynamicChild returns the child node for the dynamic segment, creating the
// edge when no sibling shares its constraint kind (and custom constraint name).
func (n *node) dynamicChild(seg route.Segment, order int) *node {
	for i := range n.dynamics {
		d := &n.dynamics[i]
		if d.seg.Kind == seg.Kind && strings.EqualFold(d.seg.Constraint, seg.Constraint) {
			return d.node
		}
	}
	child := &node{}
	n.dynamics = append(n.dynamics, dynamicEdge{seg: seg, node: child, order: order})
	return child
}

// insert threads the route's segment sequence through the graph. The
// terminal node records the route; registration-time conflict checks
// guarantee at most one route terminates at any node.
func (n *node) insert(rt *Route) {
	cur := n
	cur.routes = append(cur.routes, rt)
	for _, seg := range rt.template.Segments {
		if seg.Dynamic {
			cur = cur.dynamicChild(seg, rt.index)
		} else {
			cur = cur.literalChild(seg.Value)
		}
		cur.routes = append(cur.routes, rt)
	}
	cur.route = rt
}

// literalExact returns the child for a folded token that equals a literal
// edge label, or nil.
func (n *node) literalExact(folded string) *node {
	for i := range n.edges {
		if n.edges[i].label == folded {
			return n.edges[i].node
		}
	}
	return nil
}

// literalPrefix returns every literal edge whose label starts with the
// folded token. Called only when no exact label matched.
func (n *node) literalPrefix(folded string) []edge {
	var hits []edge
	for _, e := range n.edges {
		if strings.HasPrefix(e.label, folded) {
			hits = append(hits, e)
		}
	}
	return hits
}

// dynamicMatch returns the child of the first dynamic edge whose constraint
// accepts the token. Edges are in specificity order, so the first acceptance
// is the winner; once taken, the branch is committed.
func (n *node) dynamicMatch(token string, custom *route.Constraints) *node {
	for i := range n.dynamics {
		if route.Evaluate(n.dynamics[i].seg, token, custom) {
			return n.dynamics[i].node
		}
	}
	return nil
}

// completion returns the earliest-registered route that passes through this
// node and whose segments beyond depth are all optional. Such a route is
// satisfied when the input ends here.
func (n *node) completion(depth int) *Route {
	var best *Route
	for _, rt := range n.routes {
		segs := rt.template.Segments
		if len(segs) <= depth {
			continue
		}
		trailing := true
		for _, seg := range segs[depth:] {
			if !seg.Optional {
				trailing = false
				break
			}
		}
		if trailing && (best == nil || rt.index < best.index) {
			best = rt
		}
	}
	return best
}

// literalCandidates returns the display spellings of the node's literal
// edges, sorted case-insensitively.
func (n *node) literalCandidates() []string {
	if len(n.edges) == 0 {
		return nil
	}
	out := make([]string, 0, len(n.edges))
	for _, e := range n.edges {
		out = append(out, e.display)
	}
	sortFold(out)
	return out
}

// expected returns everything the node accepts next: literal spellings plus
// parameter placeholders rendered in template form, sorted case-insensitively.
func (n *node) expected() []string {
	if len(n.edges)+len(n.dynamics) == 0 {
		return nil
	}
	out := make([]string, 0, len(n.edges)+len(n.dynamics))
	for _, e := range n.edges {
		out = append(out, e.display)
	}
	for _, d := range n.dynamics {
		out = append(out, d.seg.String())
	}
	sortFold(out)
	return out
}

func sortFold(values []string) {
	slices.SortFunc(values, func(a, b string) int {
		return strings.Compare(fold(a), fold(b))
	})
}

// buildGraph assembles a fresh snapshot from the registered routes, skipping
// routes whose module presence predicate currently reports false. Callers
// hold r.mu.
func (r *Router) buildGraph() *graph {
	root := &node{}
	disabled := make(map[string]int)
	active := 0
	for _, rt := range r.routes {
		if rt.enabled != nil && !rt.enabled() {
			disabled[rt.module]++
			continue
		}
		root.insert(rt)
		active++
	}
	r.finalizeNode(root, 0)

	ids := make([]string, 0, len(disabled))
	for id := range disabled {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		r.emit(DiagModuleDisabled, "module disabled; its routes are excluded from resolution", map[string]any{
			"module": id,
			"routes": disabled[id],
		})
	}

	return &graph{root: root, constraints: r.constraints, routeCount: active}
}

// finalizeNode orders each node's dynamic edges by descending specificity,
// breaking ties by registration order, and reports ties: two custom
// constraints at one position score equally, so only registration order
// separates them.
func (r *Router) finalizeNode(n *node, depth int) {
	slices.SortStableFunc(n.dynamics, func(a, b dynamicEdge) int {
		if d := b.seg.Specificity() - a.seg.Specificity(); d != 0 {
			return d
		}
		return a.order - b.order
	})
	for i := 1; i < len(n.dynamics); i++ {
		prev, cur := n.dynamics[i-1], n.dynamics[i]
		if prev.seg.Specificity() == cur.seg.Specificity() {
			r.emit(DiagRouteShadowed, "dynamic segments with equal specificity; registration order decides", map[string]any{
				"position": depth,
				"selected": prev.seg.String(),
				"shadowed": cur.seg.String(),
			})
		}
	}
	for _, e := range n.edges {
		r.finalizeNode(e.node, depth+1)
	}
	for _, d := range n.dynamics {
		r.finalizeNode(d.node, depth+1)
	}
}

// atomicGraph holds the current resolution snapshot with lock-free reads.
//
// SAFETY REQUIREMENTS:
//   - Requires 64-bit architecture for pointer operations
//   - Pointer must be properly aligned (guaranteed by Go runtime)
//   - Wholesale rebuild ensures readers never see partial updates
//
// FIELD ORDER REQUIREMENTS:
//   - `graph` MUST be the first field (offset 0) to guarantee 8-byte alignment
//   - `version` MUST follow immediately after for 8-byte alignment
//   - DO NOT reorder these fields or insert fields between them
//   - Operations on uint64/unsafe.Pointer require 8-byte alignment
//
// Alignment is verified at runtime in init() - the program will panic if misaligned.
type atomicGraph struct {
	// graph is a pointer to the current snapshot.
	// WARNING: Must only be accessed via atomic operations (Load/Store/CompareAndSwap)
	// CRITICAL: Must be first field for 8-byte alignment (verified in init())
	graph unsafe.Pointer // *graph

	// version is incremented on each snapshot swap
	// CRITICAL: Must immediately follow graph for 8-byte alignment (verified in init())
	version uint64
}

func init() {
	// Runtime safety check: verify platform support for atomic pointer operations
	if unsafe.Sizeof(unsafe.Pointer(nil)) != 8 {
		panic("command: requires 64-bit architecture for atomic pointer operations (unsafe.Pointer must be 8 bytes)")
	}

	// Verify atomic field alignment at runtime.
	// On 64-bit systems, atomic operations on uint64 and unsafe.Pointer require
	// 8-byte alignment. The Go compiler guarantees this for the first field and
	// for fields following 8-byte aligned fields. This check ensures the struct
	// layout remains correct even if refactored.
	var g atomicGraph
	if unsafe.Offsetof(g.graph) != 0 {
		panic("command: atomicGraph.graph must be first field for proper atomic alignment")
	}
	if unsafe.Offsetof(g.version)%8 != 0 {
		panic("command: atomicGraph.version is not 8-byte aligned (misaligned atomic operations will panic on some architectures)")
	}
}

// load atomically loads the current snapshot, or nil before the first build.
func (a *atomicGraph) load() *graph {
	p := atomic.LoadPointer(&a.graph)
	if p == nil {
		return nil
	}
	return (*graph)(p)
}

// swap publishes a new snapshot if old is still current and bumps the
// version. Writers serialize on the router mutex, so the swap cannot fail
// in practice; the CompareAndSwap keeps in-flight readers on the snapshot
// they loaded.
func (a *atomicGraph) swap(old, next *graph) bool {
	if atomic.CompareAndSwapPointer(&a.graph, unsafe.Pointer(old), unsafe.Pointer(next)) {
		atomic.AddUint64(&a.version, 1)
		return true
	}
	return false
}

// snapshotVersion returns the number of snapshot swaps so far.
func (a *atomicGraph) snapshotVersion() uint64 {
	return atomic.LoadUint64(&a.version)
}
