// Package table reads the markdown file that drives a batch run.
//
// The file holds a GitHub-flavored pipe table whose header names the columns
// Current File Name, Suggested File Name, Date, Tags and Area, in any order and
// capitalization. Parse returns the data rows in table order together with
// optional YAML front matter overrides. A row missing a required field is still
// returned; Row.Validate reports it so the caller can record a row failure
// without aborting the batch.
package table
