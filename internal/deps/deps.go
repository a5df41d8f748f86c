package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"mediasort/internal/config"
)

// Requirement names an external executable a run may invoke.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup result for one Requirement. Path is the resolved
// executable when Available.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// Requirements lists the external tools a run may need. Only ExifTool today;
// it is needed solely for rows that carry a date or tags.
func Requirements(cfg *config.Config) []Requirement {
	binary := "exiftool"
	if cfg != nil && strings.TrimSpace(cfg.ExifToolBinary()) != "" {
		binary = cfg.ExifToolBinary()
	}
	return []Requirement{{
		Name:        "ExifTool",
		Command:     binary,
		Description: "Writes capture dates and tags; only needed for rows with a date or tags",
	}}
}

// CheckBinaries looks up every requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, lookup(req))
	}
	return results
}

func lookup(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Path = path
	status.Available = true
	return status
}

// Missing returns the unavailable, non-optional entries of statuses.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
