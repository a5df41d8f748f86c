// Package services defines shared utilities consumed by the row pipeline and
// the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, profiles, row numbers, and stage
//     names for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     fatal (format, configuration) or row-scoped (not found, ambiguous,
//     tagging, organize).
//   - Thin abstractions that make command execution from external tools
//     testable (see the exiftool subpackage).
//
// Use these helpers when wiring new stage logic so error reporting stays
// uniform across rows.
package services
