package preflight

import (
	"context"

	"mediasort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// VersionChecker reports the version of an external tool.
type VersionChecker interface {
	Version(ctx context.Context) (string, error)
}

// Options selects the optional checks of RunAll.
type Options struct {
	// Tool is probed when non-nil.
	Tool VersionChecker
	// TablePath is checked for readability when set.
	TablePath string
}

// RunAll executes the checks for one profile.
func RunAll(ctx context.Context, profile config.Profile, opts Options) []Result {
	var results []Result

	if opts.TablePath != "" {
		results = append(results, CheckReadableFile("Table", opts.TablePath))
	}
	results = append(results, CheckDirectoryAccess("Source directory", profile.SourceDir))
	results = append(results, CheckCreatableDirectory("Destination root", profile.DestinationDir))
	if opts.Tool != nil {
		results = append(results, CheckTool(ctx, "ExifTool", opts.Tool))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
