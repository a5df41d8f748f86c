// Package history persists a read-only archive of past batch runs in SQLite.
//
// Each run stores its settings, summary counts and per-row outcomes so the
// history command can list and inspect earlier runs. The archive is never
// used to replay or undo a run. Writes retry briefly when SQLite reports the
// database as busy.
package history
