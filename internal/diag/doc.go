// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     declaration loading, registry merging, renaming, monomorphization and
//     dependency resolution.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any terminal formatting or IO. Rendering lives
// in internal/diagfmt; collection per input lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – the Subject (input file, declaration name) the finding is about.
//   - Notes – optional secondary subjects/messages for additional context.
//
// # Emitting diagnostics
//
// Phases receive a diag.Reporter explicitly; there is no package-level sink,
// so independent pipeline runs never share diagnostic state. Use
// ReportWarning/ReportError to build a diagnostic with notes before Emit, or
// call Reporter.Report directly. BagReporter aggregates into a Bag, which
// supports sorting, deduplication and filtering.
//
// Severity is the tiering contract: warnings describe recoverable problems
// where the run continues with a defined fallback, errors describe violated
// invariants after which no output is produced.
package diag
