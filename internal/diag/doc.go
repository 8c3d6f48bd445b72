// Package diag defines the diagnostic model shared by the tycore engine and CLI.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by reference resolution and generic-argument propagation.
//   - Offer light-weight utilities (Bag) that let producers collect
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with stable string form.
//   - Message: human oriented text; keep it short and actionable.
//   - Subject: the qualified name of the hint, reference, or class involved.
//   - Notes: optional secondary messages for additional context.
//
// Package diag does not perform any formatting or IO. Rendering lives in the
// CLI layer.
package diag
