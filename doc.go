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

// Package command provides a command-routing and argument-binding engine
// for word-based command languages: CLI verbs, chat-bot commands, REPL and
// game consoles.
//
// Routes are registered as whitespace-separated templates mixing literal
// words and typed parameters ("file copy {source} {dest?:string}"). An
// immutable resolution graph matches incoming token sequences to routes,
// extracts parameter values, and binds the remaining arguments against the
// route's declared option schema. The engine stops at the matched route and
// its bound values; executing handlers, rendering help text, and
// materializing typed values belong to its callers.
//
// # Key Features
//
//   - Route templates with 16 typed constraint kinds (int, guid, datetime,
//     timespan, ...) plus caller-registered custom constraints
//   - Registration-time ambiguity detection: two routes that could both
//     match one input are rejected at Register, never discovered at runtime
//   - Case-insensitive literal matching with unambiguous-prefix
//     abbreviation ("con stat" resolves "config status")
//   - Longest-match nesting: "file" and "file copy" coexist, the deepest
//     satisfiable route wins
//   - Deterministic non-match outcomes as data: Partial (navigation),
//     Ambiguous (colliding candidates), NotFound
//   - Option binding with aliases, reverse aliases, value aliases, arities,
//     and positional fallback
//   - Module scopes with presence predicates; snapshot invalidation
//     re-evaluates them without re-registration
//   - Lock-free resolution over an atomically swapped immutable snapshot
//   - Diagnostics as data plus pluggable observability and metrics
//     recorders
//
// # Resolution Pipeline
//
// Evaluate splits an argument vector into a command region and an option
// region at the first "--"-prefixed token, then runs three stages:
//
//  1. Resolve walks the command tokens through the route graph (literal
//     edges before dynamic edges, specificity deciding between dynamic
//     siblings).
//  2. The option region is tokenized against the matched route's known
//     option names; problems surface as diagnostics, never panics.
//  3. Bind merges route parameter values, option values, and positional
//     fallback into per-parameter results and enforces arities.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//
//	    "rivaas.dev/command"
//	    "rivaas.dev/command/binding"
//	)
//
//	func main() {
//	    r := command.MustNew()
//	    r.MustRegister("file copy {source} {dest?}", "copy-handler",
//	        command.WithOptions(
//	            binding.Parameter{Name: "force", Aliases: []string{"f"}},
//	        ),
//	    )
//
//	    inv, err := r.Evaluate([]string{"file", "copy", "a.txt", "--force"})
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(inv.Route().Name(), inv.Bound.Value("source"))
//	}
//
// # Constructor Pattern
//
// New validates the assembled configuration and returns an error; MustNew
// panics instead. Route definitions fail fast the same way: Register
// reports template, schema, and ambiguity errors at the call site, and
// MustRegister panics for init-time registration. After the route set is
// frozen (explicitly via Freeze/Warmup or implicitly by the first
// resolution), registration is rejected.
//
// # Concurrency
//
// Registration is configuration-phase work. Resolution reads an immutable
// snapshot behind an atomic pointer: Resolve, At, Evaluate, and Routes are
// safe for unlimited concurrent use without external locking. Invalidate
// marks the snapshot stale; the next resolution rebuilds it wholesale and
// swaps it in while in-flight resolutions finish on the snapshot they
// loaded.
//
// # Observability
//
// The engine performs no I/O of its own. Registration-time anomalies are
// reported as DiagnosticEvent values to an optional handler, an optional
// ObservabilityRecorder brackets each resolution, and an optional
// MetricsRecorder receives per-resolution measurements attributed by
// outcome and route name:
//
//	r := command.MustNew(
//	    command.WithDiagnostics(handler),
//	    command.WithObservability(recorder),
//	    command.WithMetrics(metrics),
//	)
package command
