// Package preflight provides readiness checks for the tools and filesystem
// paths a batch run depends on.
//
// These checks run in two contexts:
//   - The run command calls RunAll before touching any file. A failed check
//     aborts the run so no row is half-processed for an environmental reason.
//   - The CLI "mediasort check" command prints every result as a table.
//
// The ExifTool check is skipped when the table has no row needing metadata.
package preflight
