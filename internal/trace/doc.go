// Package trace provides a tracing subsystem for the tycore engine.
//
// The trace package enables tracking of decoration passes, forward-reference
// resolution, and cache activity to help diagnose slow or surprising runs.
//
// # Architecture
//
// The package provides two tracer implementations:
//
//   - NopTracer: Zero-overhead no-op tracer when disabled
//   - StreamTracer: Immediate write to output (file/stderr)
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelPass: Decoration pass boundaries
//   - LevelDetail: Per-class and per-reference events
//   - LevelDebug: Everything including cache hits
//
// # Context Propagation
//
// Tracers are propagated through the engine via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "decorate", 0)
//	defer span.End("")
package trace
