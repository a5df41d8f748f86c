package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const timestampLayout = "2006-01-02 15:04:05"

// Summary tallies a run. It is derived from the outcomes on every call.
type Summary struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Warnings  int `json:"warnings"`
}

// Report accumulates outcomes in row order for one run.
type Report struct {
	Profile   string
	StartedAt time.Time
	DryRun    bool

	outcomes []Outcome
}

// New creates an empty report for a run over profile.
func New(profile string, startedAt time.Time) *Report {
	return &Report{Profile: profile, StartedAt: startedAt}
}

// Record appends the outcome of the next row.
func (r *Report) Record(outcome Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}

// Outcomes returns a copy of the recorded outcomes.
func (r *Report) Outcomes() []Outcome {
	return append([]Outcome(nil), r.outcomes...)
}

// FailedOutcomes returns the failed rows in row order.
func (r *Report) FailedOutcomes() []Outcome {
	var failed []Outcome
	for _, o := range r.outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Summary counts processed, succeeded and failed rows.
func (r *Report) Summary() Summary {
	var s Summary
	for _, o := range r.outcomes {
		s.Processed++
		if o.Failed() {
			s.Failed++
		} else {
			s.Succeeded++
		}
		if o.Warning != "" {
			s.Warnings++
		}
	}
	return s
}

func (r *Report) title() string {
	profile := strings.TrimSpace(r.Profile)
	if profile == "" {
		profile = "media"
	}
	label := strings.ToUpper(profile[:1]) + profile[1:]
	label = strings.TrimSuffix(label, "s")
	title := label + " organization errors"
	if r.DryRun {
		title += " (dry run)"
	}
	return title
}

// RenderDetails renders the error file contents: a timestamped title line,
// one line per failed row, then any warnings.
func (r *Report) RenderDetails() string {
	var b strings.Builder
	started := r.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	fmt.Fprintf(&b, "%s - %s\n\n", r.title(), started.Format(timestampLayout))

	failed := r.FailedOutcomes()
	if len(failed) == 0 {
		b.WriteString("No errors.\n")
	}
	for _, o := range failed {
		fmt.Fprintf(&b, "%s - %s: %s\n", o.Label(), o.Stage, o.Reason)
	}

	var warned []Outcome
	for _, o := range r.outcomes {
		if o.Warning != "" {
			warned = append(warned, o)
		}
	}
	if len(warned) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, o := range warned {
			fmt.Fprintf(&b, "%s - %s\n", o.Label(), o.Warning)
		}
	}
	return b.String()
}

// RenderSummaryTable renders the tally followed by the failed rows as
// terminal tables. colorize enables ANSI colors for the status cells.
func (r *Report) RenderSummaryTable(colorize bool) string {
	s := r.Summary()
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Processed", "Succeeded", "Failed", "Warnings"})
	failedCell := strconv.Itoa(s.Failed)
	if colorize && s.Failed > 0 {
		failedCell = text.FgRed.Sprint(failedCell)
	}
	tw.AppendRow(table.Row{s.Processed, s.Succeeded, failedCell, s.Warnings})
	out := tw.Render()

	failed := r.FailedOutcomes()
	if len(failed) == 0 {
		return out + "\n"
	}
	ft := table.NewWriter()
	ft.SetStyle(table.StyleRounded)
	ft.AppendHeader(table.Row{"Row", "Token", "Stage", "Reason"})
	for _, o := range failed {
		stage := o.Stage
		if colorize {
			stage = text.FgYellow.Sprint(stage)
		}
		ft.AppendRow(table.Row{o.Row, o.Label(), stage, o.Reason})
	}
	ft.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, WidthMax: 80},
	})
	return out + "\n" + ft.Render() + "\n"
}

// WriteArtifact overwrites path with RenderDetails.
func (r *Report) WriteArtifact(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create error file directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(r.RenderDetails()), 0o644); err != nil {
		return fmt.Errorf("write error file: %w", err)
	}
	return nil
}
