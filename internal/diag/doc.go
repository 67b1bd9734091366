// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer, the node builder and lint rules.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the driver or CLI can
//     materialise and optionally apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO, CLI integration, or
// interactive behaviour. Rendering responsibilities live in internal/diagfmt,
// whereas orchestration and application of fixes lives in internal/fix and the
// driver layer.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity - tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code - compact numeric identifier (see codes.go) with stable string form.
//   - Rule - qualified rule id for rule findings ("em-dash-checker/no-em-dash").
//   - MessageID / Data - the message template id and its placeholder values.
//   - Message - human oriented text, already interpolated.
//   - Primary span and Loc - the byte span and its resolved line/column range.
//   - Notes - optional secondary spans/messages for additional context.
//   - Fixes - optional Fix records describing how to address the problem.
//
// # Fix suggestions
//
// Fix represents a possible automated correction. Each fix carries:
//
//   - Title - short label used in UI listings.
//   - Kind - coarse classification (quick fix, refactor, rewrite, source action).
//   - Applicability - confidence level: AlwaysSafe, SafeWithHeuristics,
//     ManualReview.
//   - IsPreferred - optionally mark the most relevant fix when several exist.
//   - Edits - concrete text edits (Span + new/old text) to apply.
//
// Fixes are data only. Nothing in this package applies them; rule
// suggestions are applied only when a caller selects one explicitly.
//
// TextEdit enforces spans in source coordinates; OldText acts as an optional
// guard that the fix engine uses to validate the context before applying edits.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. The
// lint context, for example, constructs a ReportBuilder via NewReportBuilder (or the
// helper functions ReportError/ReportWarning) and chains WithRule /
// WithFixSuggestion before calling Emit.
//
// When no additional metadata is needed, phases may call Reporter.Report(...)
// directly. For convenience, diag.BagReporter aggregates diagnostics into a Bag,
// which supports sorting, deduplication and filtering.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into pretty/short/json/sarif formats.
//   - internal/fix: materialises Fix records and applies edits to source files.
//   - internal/driver: coordinates bag collection per file and transports
//     diagnostic data to CLI commands.
//
// Keep the data model deterministic: any new fields should honour the package's
// layering constraints and avoid side effects, so the CLI and future tooling can
// safely serialise diagnostics for caching and testing.
package diag
