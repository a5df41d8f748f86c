// Package workflow drives a batch run: it reads the naming table for a profile
// and processes every row through resolve, tag and organize.
//
// Rows are processed strictly in table order and independently of each other.
// Any row error becomes a failure outcome in the run report and the loop moves
// on; only problems that make the whole batch meaningless (an unreadable or
// malformed table, an unknown profile, a held run lock) abort the run. A
// per-profile lock file keeps two runs from moving the same files at once.
package workflow
