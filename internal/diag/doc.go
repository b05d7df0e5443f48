// Package diag defines the core diagnostic model shared by the lint stage.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture lint
//     findings over decoded semantic snapshots.
//   - Offer light-weight utilities (Reporter, Bag) that let passes emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits the fix engine can apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO, or CLI integration.
// Rendering lives in internal/diagfmt; applying fixes lives in internal/fix.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//   - Lint – the lint pass name for lint-range codes; the suppression
//     identity usable in @allow attributes and manifest allow/deny lists.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Labels – secondary annotated spans rendered inline with the excerpt.
//   - Notes – optional out-of-band context lines.
//   - Fixes – optional structured corrections.
//
// # Emitting diagnostics
//
// Passes construct diagnostics through a ReportBuilder (Report* helpers) and
// chain WithLabel / WithNote / WithFix before calling Emit. BagReporter
// aggregates into a Bag; SyncReporter makes any Reporter safe for use from
// concurrent walkers; DedupReporter drops exact duplicates.
//
// Keep the data model deterministic: diagnostics are sorted, deduplicated
// and golden-tested, so any new field must serialise stably.
package diag
