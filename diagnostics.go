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

// DiagnosticEvent represents a router diagnostic or anomaly.
// These are informational events that may indicate configuration issues
// or surprising resolution behavior.
//
// Diagnostic events are optional - the router functions correctly whether
// they are collected or not. They provide visibility into edge cases and
// potential issues for observability systems.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// Registration diagnostics
	DiagRouteRegistered DiagnosticKind = "route_registered"
	DiagRouteShadowed   DiagnosticKind = "route_shadowed"

	// Snapshot diagnostics
	DiagSnapshotRebuilt DiagnosticKind = "snapshot_rebuilt"
	DiagModuleDisabled  DiagnosticKind = "module_disabled"

	// Invocation diagnostics
	DiagUnknownOption DiagnosticKind = "unknown_option"
)

// DiagnosticHandler receives diagnostic events from the router.
// Implementations may log, emit metrics, trace events, or ignore them.
//
// This interface is optional - if not provided, diagnostics are silently dropped.
// The router's behavior is unchanged whether diagnostics are collected or not.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := command.DiagnosticHandlerFunc(func(e command.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := command.MustNew(command.WithDiagnostics(handler))
//
// Example with metrics:
//
//	handler := command.DiagnosticHandlerFunc(func(e command.DiagnosticEvent) {
//	    metrics.Increment("command.diagnostics", "kind", string(e.Kind))
//	})
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}
