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
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"rivaas.dev/command/binding"
	"rivaas.dev/command/route"
)

// noopLogger is a singleton no-op logger used when no logging is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
// This is used by implementations of ObservabilityRecorder when logging is disabled.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Handler is an opaque reference to whatever executes a matched command.
// The engine never invokes it; it only requires a non-nil value at
// registration and carries it to the resolution result.
type Handler any

// Route is one registered command route: a parsed template, its option
// schema, and the handler reference. Routes are immutable after
// registration; configuration errors surface at Register, never later.
type Route struct {
	template     *route.Template
	schema       *binding.Schema
	handler      Handler
	name         string
	module       string
	index        int
	enabled      func() bool
	allowUnknown bool
}

// Name returns the route name: the value given via WithName, or the
// canonical template text.
func (rt *Route) Name() string {
	return rt.name
}

// Module returns the id of the module the route was registered through,
// or the empty string for routes registered directly on the router.
func (rt *Route) Module() string {
	return rt.module
}

// Handler returns the handler reference supplied at registration.
func (rt *Route) Handler() Handler {
	return rt.handler
}

// Template returns the parsed route template. Templates are immutable;
// callers must not modify the returned value.
func (rt *Route) Template() *route.Template {
	return rt.template
}

// Schema returns the route's option schema. Schemas are immutable and safe
// for concurrent use.
func (rt *Route) Schema() *binding.Schema {
	return rt.schema
}

// String returns the canonical template text.
func (rt *Route) String() string {
	return rt.template.String()
}

// Router matches token sequences to registered command routes and binds
// invocation arguments against their option schemas.
//
// A Router has two phases. During configuration, routes are registered and
// validated; every configuration error is reported at the Register call
// that caused it. The first resolution freezes the route set and builds an
// immutable resolution graph; from then on Resolve, At, and Evaluate are
// lock-free reads of an atomically swapped snapshot and are safe for any
// number of concurrent goroutines.
//
// Example:
//
//	r := command.MustNew()
//	r.MustRegister("file copy {source} {dest?}", copyHandler,
//	    command.WithOptions(binding.Parameter{Name: "verbose", Aliases: []string{"v"}}),
//	)
//	inv, err := r.Evaluate([]string{"file", "copy", "a.txt", "--verbose"})
type Router struct {
	mu     sync.Mutex
	routes []*Route
	named  map[string]*Route

	constraints        *route.Constraints
	pendingConstraints []constraintDecl

	logger        *slog.Logger
	diagnostics   DiagnosticHandler
	observability ObservabilityRecorder
	metrics       MetricsRecorder

	graph      atomicGraph // Current resolution snapshot with atomic swap
	frozen     atomic.Bool // Route set is immutable after freeze
	dirty      atomic.Bool // Snapshot must be rebuilt before the next resolution
	freezeOnce sync.Once   // Ensures the freeze transition runs exactly once

	caseSensitiveOptions bool
	noSuggestions        bool
}

// constraintDecl is a custom constraint queued by WithConstraint and
// registered during New, where registration errors can be returned.
type constraintDecl struct {
	name string
	fn   route.Predicate
}

// New creates a new router with optional configuration.
//
// Returns an error if the router configuration is invalid. Configuration is
// validated immediately at startup rather than at first use.
//
// For a version that panics instead of returning an error, use MustNew.
//
// Example:
//
//	r, err := command.New(
//	    command.WithConstraint("even", func(tok string) bool {
//	        n, err := strconv.Atoi(tok)
//	        return err == nil && n%2 == 0
//	    }),
//	)
//	if err != nil {
//	    log.Fatalf("invalid router configuration: %v", err)
//	}
func New(opts ...Option) (*Router, error) {
	r := &Router{
		logger:      noopLogger,
		constraints: route.NewConstraints(),
		named:       make(map[string]*Route),
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	return r, nil
}

// MustNew creates a new Router and panics if configuration is invalid.
// This is a convenience wrapper around New for cases where configuration
// errors should cause the application to fail immediately at startup.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("command.MustNew: %v", err))
	}
	return r
}

// validate checks the assembled configuration and registers queued custom
// constraints. Called by New after all options have been applied.
func (r *Router) validate() error {
	if r.logger == nil {
		return ErrNilLogger
	}
	for _, c := range r.pendingConstraints {
		if err := r.constraints.Register(c.name, c.fn); err != nil {
			return fmt.Errorf("constraint %q: %w", c.name, err)
		}
	}
	r.pendingConstraints = nil
	return nil
}

// Register adds a command route. The template is parsed with the router's
// constraint registry, the option schema is built from WithOptions, and the
// template is checked pairwise against every registered template for
// ambiguity. Any failure aborts the registration with a descriptive error;
// nothing is partially registered.
//
// Registration is rejected with ErrFrozen once the route set has been
// frozen by Freeze, Warmup, or a first resolution.
//
// Example:
//
//	rt, err := r.Register("user show {id:int}", showUser,
//	    command.WithName("user.show"),
//	    command.WithOptions(binding.Parameter{Name: "format", Arity: binding.ExactlyOne}),
//	)
func (r *Router) Register(template string, handler Handler, opts ...RouteOption) (*Route, error) {
	return r.register(template, handler, "", nil, opts)
}

// MustRegister is like Register but panics on error. Use it in program
// initialization where a bad route definition should stop the process.
func (r *Router) MustRegister(template string, handler Handler, opts ...RouteOption) *Route {
	rt, err := r.Register(template, handler, opts...)
	if err != nil {
		panic(fmt.Sprintf("command.MustRegister: %v", err))
	}
	return rt
}

func (r *Router) register(template string, handler Handler, module string, enabled func() bool, opts []RouteOption) (*Route, error) {
	if r.frozen.Load() {
		return nil, fmt.Errorf("register %q: %w", template, ErrFrozen)
	}
	if handler == nil {
		return nil, fmt.Errorf("register %q: %w", template, ErrNilHandler)
	}

	var cfg routeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tmpl, err := route.Parse(template, route.WithConstraints(r.constraints))
	if err != nil {
		return nil, err
	}

	schemaOpts := make([]binding.SchemaOption, 0, 3)
	if r.caseSensitiveOptions {
		schemaOpts = append(schemaOpts, binding.WithCaseSensitive())
	}
	if cfg.allowUnknown {
		schemaOpts = append(schemaOpts, binding.WithAllowUnknown())
	}
	if r.noSuggestions {
		schemaOpts = append(schemaOpts, binding.WithoutSuggestions())
	}
	schema, err := binding.NewSchema(cfg.params, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("route %q options: %w", template, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Ambiguity is checked against every registered template, including
	// routes of currently disabled modules: enablement can change at any
	// Invalidate, and a conflict must never appear at resolution time.
	for _, existing := range r.routes {
		if err := route.Validate(tmpl, existing.template); err != nil {
			return nil, err
		}
	}

	name := cfg.name
	if name == "" {
		name = tmpl.String()
	}
	if _, taken := r.named[name]; taken {
		return nil, fmt.Errorf("route %q: name %q: %w", template, name, ErrDuplicateRouteName)
	}

	rt := &Route{
		template:     tmpl,
		schema:       schema,
		handler:      handler,
		name:         name,
		module:       module,
		index:        len(r.routes),
		enabled:      enabled,
		allowUnknown: cfg.allowUnknown,
	}
	r.routes = append(r.routes, rt)
	r.named[name] = rt

	r.logger.Debug("route registered", "template", tmpl.String(), "name", name, "module", module)
	r.emit(DiagRouteRegistered, "route registered", map[string]any{
		"template": tmpl.String(),
		"name":     name,
		"module":   module,
	})
	return rt, nil
}

// Freeze freezes the router, making the route set immutable, and builds the
// first resolution snapshot. After Freeze any attempt to register returns
// ErrFrozen.
//
// Freeze is called automatically by the first Resolve, At, or Evaluate.
// Call it explicitly to surface the transition at a chosen point, such as
// the end of program initialization.
//
// Freeze is safe to call from multiple goroutines concurrently; all callers
// block until the freeze is complete.
func (r *Router) Freeze() {
	r.freezeOnce.Do(func() {
		r.frozen.Store(true)
		r.rebuild()
	})
}

// Warmup primes the router before the first invocation: it freezes the
// route set and builds the resolution snapshot so no resolution pays the
// build cost. Calling Warmup multiple times is safe.
func (r *Router) Warmup() {
	r.Freeze()
}

// Frozen returns true if the router has been frozen (routes are immutable).
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}

// Invalidate marks the resolution snapshot stale. The next resolution
// rebuilds the graph wholesale, re-evaluating every module presence
// predicate, and swaps it in atomically; resolutions already in flight
// complete against the snapshot they loaded.
//
// Invalidate never blocks resolution and is safe to call concurrently.
func (r *Router) Invalidate() {
	r.dirty.Store(true)
}

// snapshot returns the current graph, freezing and building on first use
// and rebuilding when the snapshot has been invalidated.
func (r *Router) snapshot() *graph {
	r.Freeze()
	if r.dirty.Load() {
		r.rebuild()
	}
	return r.graph.load()
}

// rebuild builds and publishes a fresh snapshot. Concurrent callers
// serialize on the mutex; the dirty re-check keeps a burst of resolutions
// after one Invalidate from rebuilding more than once.
func (r *Router) rebuild() {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.graph.load()
	if old != nil && !r.dirty.Load() {
		return
	}

	g := r.buildGraph()
	r.graph.swap(old, g)
	r.dirty.Store(false)

	version := r.graph.snapshotVersion()
	r.logger.Debug("resolution graph rebuilt", "version", version, "routes", g.routeCount)
	r.emit(DiagSnapshotRebuilt, "resolution graph rebuilt", map[string]any{
		"version": version,
		"routes":  g.routeCount,
	})
}

// emit sends a diagnostic event if a handler is configured.
func (r *Router) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.diagnostics != nil {
		r.diagnostics.OnDiagnostic(DiagnosticEvent{
			Kind:    kind,
			Message: message,
			Fields:  fields,
		})
	}
}
