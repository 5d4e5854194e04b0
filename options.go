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
	"log/slog"

	"rivaas.dev/command/binding"
	"rivaas.dev/command/route"
)

// Option defines functional options for router configuration.
type Option func(*Router)

// WithLogger sets the logger for configuration-phase events such as route
// registration and snapshot rebuilds. The resolution hot path never logs.
// The default logger discards everything.
//
// Example:
//
//	r := command.MustNew(command.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
//
// Diagnostic events are optional informational events that may indicate
// configuration issues or surprising resolution behavior. The router
// functions correctly whether diagnostics are collected or not.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := command.DiagnosticHandlerFunc(func(e command.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := command.MustNew(command.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithObservability sets the observability recorder invoked around each
// resolution. Pass nil to disable.
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = recorder
	}
}

// WithMetrics sets the metrics recorder that receives one measurement per
// resolution, attributed by outcome and matched route name. Pass nil to
// disable.
func WithMetrics(recorder MetricsRecorder) Option {
	return func(r *Router) {
		r.metrics = recorder
	}
}

// WithConstraint registers a custom constraint available to every template
// parsed by this router. The name must not collide with a built-in
// constraint kind or another custom constraint; violations are reported by
// New.
//
// A dynamic segment using a custom constraint outranks every built-in kind
// when sibling segments compete for the same token.
//
// Example:
//
//	r := command.MustNew(
//	    command.WithConstraint("semver", func(tok string) bool {
//	        _, err := semver.NewVersion(tok)
//	        return err == nil
//	    }),
//	)
//	r.MustRegister("release {version:semver}", releaseHandler)
func WithConstraint(name string, fn route.Predicate) Option {
	return func(r *Router) {
		r.pendingConstraints = append(r.pendingConstraints, constraintDecl{name: name, fn: fn})
	}
}

// WithCaseSensitiveOptions makes option-token matching case-sensitive for
// every route schema and option parse. The default is case-insensitive.
// Individual parameters can still override via Parameter.CaseSensitive.
func WithCaseSensitiveOptions() Option {
	return func(r *Router) {
		r.caseSensitiveOptions = true
	}
}

// WithoutSuggestions disables did-you-mean lookups on unknown-option
// diagnostics and binding errors. Unknown options are still reported.
func WithoutSuggestions() Option {
	return func(r *Router) {
		r.noSuggestions = true
	}
}

// routeConfig collects per-route registration options.
type routeConfig struct {
	params       []binding.Parameter
	name         string
	allowUnknown bool
}

// RouteOption defines functional options for one route registration.
type RouteOption func(*routeConfig)

// WithOptions declares the route's option parameters. The descriptors are
// compiled into a binding.Schema at registration; schema configuration
// errors fail the Register call.
//
// Example:
//
//	r.MustRegister("build {target?}", buildHandler,
//	    command.WithOptions(
//	        binding.Parameter{Name: "output", Aliases: []string{"o"}, Arity: binding.ExactlyOne},
//	        binding.Parameter{Name: "verbose", Aliases: []string{"v"}},
//	    ),
//	)
func WithOptions(params ...binding.Parameter) RouteOption {
	return func(cfg *routeConfig) {
		cfg.params = append(cfg.params, params...)
	}
}

// WithName names the route for introspection and metrics. Names must be
// unique across the router; the default is the canonical template text.
func WithName(name string) RouteOption {
	return func(cfg *routeConfig) {
		cfg.name = name
	}
}

// WithAllowUnknown tolerates option names outside the route's schema: they
// are carried in the parse result but produce no diagnostics or binding
// errors.
func WithAllowUnknown() RouteOption {
	return func(cfg *routeConfig) {
		cfg.allowUnknown = true
	}
}

// ModuleOption defines functional options for module creation.
type ModuleOption func(*Module)

// WithPrefix prepends command tokens to every template registered through
// the module. Tokens accumulate: a nested module extends its parent's
// prefix.
//
// Example:
//
//	admin := r.Module("admin", command.WithPrefix("admin"))
//	admin.MustRegister("user delete {id:int}", deleteUser) // admin user delete {id:int}
func WithPrefix(tokens ...string) ModuleOption {
	return func(m *Module) {
		m.prefix = append(m.prefix, tokens...)
	}
}

// WithEnabled attaches a presence predicate to the module. The predicate is
// re-evaluated at every snapshot rebuild: routes of a module whose
// predicate reports false are excluded from resolution until a later
// Invalidate observes it true again. Nested modules combine predicates;
// a child is present only while every ancestor is.
//
// The predicate must be safe for concurrent use and should be cheap; it
// runs during snapshot rebuilds, never per resolution.
//
// Example:
//
//	var licensed atomic.Bool
//	pro := r.Module("pro", command.WithEnabled(licensed.Load))
func WithEnabled(enabled func() bool) ModuleOption {
	return func(m *Module) {
		if enabled == nil {
			return
		}
		if parent := m.enabled; parent != nil {
			m.enabled = func() bool { return parent() && enabled() }
			return
		}
		m.enabled = enabled
	}
}
