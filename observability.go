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

// ObservabilityRecorder provides observability lifecycle hooks around token
// resolution. Implementations typically combine metrics collection,
// distributed tracing, and structured logging.
//
// Lifecycle:
//  1. Router calls OnResolveStart(ctx, tokens) → (enrichedCtx, state)
//     - Returns an enriched context (e.g., with a trace span)
//     - Returns an opaque state token (nil if the resolution should be excluded)
//  2. Resolution runs against the current graph snapshot
//  3. Router calls OnResolveEnd(ctx, state, outcome, routeName) ONLY IF state != nil
//     - Implementation records duration, finishes spans, logs the outcome
//
// Exclusion semantics: state=nil skips OnResolveEnd entirely. The router
// treats state as completely opaque.
//
// routeName is the matched route's name, or empty when no route matched.
// Implementations should use the route name (never raw input tokens) in
// metrics and trace attributes to prevent cardinality explosion.
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	// OnResolveStart is called before resolution begins.
	OnResolveStart(ctx context.Context, tokens []string) (context.Context, any)

	// OnResolveEnd is called after resolution completes, only when the
	// state token returned by OnResolveStart is non-nil.
	OnResolveEnd(ctx context.Context, state any, outcome string, routeName string)
}

// MetricsRecorder records resolution metrics. Implementations typically
// bridge to an OpenTelemetry meter or an in-process aggregator.
//
// The router supplies attributes built from the resolution outcome and the
// matched route name; raw input tokens never become attribute values.
type MetricsRecorder interface {
	// RecordResolution records the outcome of one resolution.
	RecordResolution(ctx context.Context, outcome string, attributes ...attribute.KeyValue)

	// IncrementCounter increments a custom counter metric with the given name.
	IncrementCounter(ctx context.Context, name string, attributes ...attribute.KeyValue)
}
