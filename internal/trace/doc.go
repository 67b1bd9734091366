// Package trace records what a lint run is doing.
//
// It is the logging layer of dashlint: events are written as text or NDJSON
// to stderr or a file, and spans bracket the run, each file and (at debug
// level) each rule invocation.
//
//	dashlint check --trace=- --trace-level=detail src/
//
// Levels:
//
//   - LevelOff: no tracing
//   - LevelError: reserved for failures
//   - LevelPhase: run boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything including per-rule events
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "lint", parentID)
//	defer span.End("")
package trace
