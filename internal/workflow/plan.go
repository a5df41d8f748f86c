package workflow

import (
	"context"
	"fmt"
	"time"

	"mediasort/internal/fileutil"
	"mediasort/internal/logging"
	"mediasort/internal/organizer"
	"mediasort/internal/report"
	"mediasort/internal/resolver"
	"mediasort/internal/services"
	"mediasort/internal/table"
	"mediasort/internal/tagging"
)

// PlanEntry previews what a run would do with one row.
type PlanEntry struct {
	Row    table.Row
	Source string
	// CaptureDate is the date currently embedded in Source, zero when unknown.
	CaptureDate time.Time
	Target      string
	Stage       string
	Problem     string
}

// OK reports whether the row would be processed without a known problem.
func (e PlanEntry) OK() bool {
	return e.Problem == ""
}

func (e PlanEntry) outcome() report.Outcome {
	if !e.OK() {
		return report.Failure(e.Row, e.Stage, e.Problem)
	}
	return report.Success(e.Row, e.Source, e.Target)
}

// Plan is a read-only preview of a run.
type Plan struct {
	Settings Settings
	Entries  []PlanEntry
}

// Problems counts entries that would fail.
func (p *Plan) Problems() int {
	count := 0
	for _, entry := range p.Entries {
		if !entry.OK() {
			count++
		}
	}
	return count
}

// Plan resolves every row and computes its target without writing anything.
// It takes no run lock and records no history.
func (r *Runner) Plan(ctx context.Context, profileName string, opts Options) (*Plan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.DryRun = true
	b, err := r.loadBatch(profileName, opts)
	if err != nil {
		return nil, err
	}
	ctx = services.WithProfile(ctx, b.settings.Profile)

	plan := &Plan{Settings: b.settings, Entries: make([]PlanEntry, 0, len(b.rows))}
	claims := make(map[string]int)
	for _, row := range b.rows {
		if err := ctx.Err(); err != nil {
			return plan, err
		}
		entry := r.previewRow(ctx, b.settings, row, claims)
		if entry.Source != "" {
			if captured, err := tagging.ReadCaptureDate(entry.Source); err == nil {
				entry.CaptureDate = captured
			}
		}
		plan.Entries = append(plan.Entries, entry)
	}
	return plan, nil
}

// previewRow runs every check a real run performs before mutating anything.
// claims maps targets to the row that first claimed them.
func (r *Runner) previewRow(ctx context.Context, settings Settings, row table.Row, claims map[string]int) PlanEntry {
	entry := PlanEntry{Row: row}
	logger := logging.WithContext(services.WithRow(ctx, row.Index), r.logger)
	problem := func(stage string, err error) PlanEntry {
		entry.Stage = stage
		if s, ok := services.StageOf(err); ok {
			entry.Stage = s
		}
		entry.Problem = services.Reason(err)
		logger.Debug("preview problem", logging.String(logging.FieldStage, entry.Stage), logging.String("reason", entry.Problem))
		return entry
	}

	if err := row.Validate(); err != nil {
		return problem(services.StageResolve, err)
	}
	resolved, err := resolver.ResolveRow(row, settings.SourceDir, settings.Extension)
	if err != nil {
		return problem(services.StageResolve, err)
	}
	entry.Source = resolved.Path

	// An unparseable date only stops the row when tag failures block organizing.
	if row.Date != "" && !settings.OrganizeOnTagFailure {
		if _, err := tagging.NormalizeDate(row.Date); err != nil {
			return problem(services.StageTag, services.Wrap(services.ErrTagging, services.StageTag, "normalize date", "invalid date", err))
		}
	}

	target, err := organizer.Target(resolved.Path, row.SuggestedName, row.Area, settings.DestinationDir)
	if err != nil {
		return problem(services.StageOrganize, err)
	}
	entry.Target = target

	if other, taken := claims[target]; taken {
		return problem(services.StageOrganize, services.Wrap(services.ErrOrganize, services.StageOrganize, "move file",
			fmt.Sprintf("target also claimed by row %d: %s", other, target), nil))
	}
	claims[target] = row.Index

	exists, err := fileutil.Exists(target)
	if err != nil {
		return problem(services.StageOrganize, services.Wrap(services.ErrOrganize, services.StageOrganize, "check target", "cannot inspect target", err))
	}
	if exists {
		same, err := fileutil.SameFile(resolved.Path, target)
		if err != nil || !same {
			return problem(services.StageOrganize, services.Wrap(services.ErrOrganize, services.StageOrganize, "move file",
				fmt.Sprintf("target already exists: %s", target), nil))
		}
	}
	return entry
}
