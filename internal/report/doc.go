// Package report collects the per-row outcomes of a batch run and renders
// them for the terminal and the per-profile error file.
package report
