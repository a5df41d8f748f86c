// Package exiftool mediates access to the ExifTool CLI used to write capture
// dates and keywords.
//
// It normalizes command invocation, scans ExifTool's summary and message
// lines, and classifies a run as failed when the process exits non-zero,
// reports an "Error:" line, or updates no file. Tests inject a stub Executor
// through WithExecutor instead of spawning processes.
package exiftool
