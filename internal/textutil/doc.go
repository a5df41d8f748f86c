// Package textutil provides the small text transforms shared by the table
// parser and the organizer.
//
// The primary use cases are:
//   - Sanitizing suggested names and area labels for safe filesystem use
//   - Folding column headers into case- and whitespace-insensitive keys
//
// Both transforms are idempotent.
package textutil
