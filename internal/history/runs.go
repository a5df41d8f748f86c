package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediasort/internal/report"
	"mediasort/internal/services"
)

// Run is one archived batch run.
type Run struct {
	ID             string
	Profile        string
	TablePath      string
	SourceDir      string
	DestinationDir string
	DryRun         bool
	StartedAt      time.Time
	FinishedAt     time.Time
	Summary        report.Summary
}

// Duration is the wall time of the run, or zero when it never finished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Record stores a finished run and its outcomes in one transaction.
func (s *Store) Record(ctx context.Context, run Run, outcomes []report.Outcome) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id required")
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (
                id, profile, table_path, source_dir, destination_dir, dry_run,
                started_at, finished_at, processed, succeeded, failed, warnings
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.Profile,
			nullableString(run.TablePath),
			nullableString(run.SourceDir),
			nullableString(run.DestinationDir),
			boolToInt(run.DryRun),
			formatTime(run.StartedAt),
			nullableTime(run.FinishedAt),
			run.Summary.Processed,
			run.Summary.Succeeded,
			run.Summary.Failed,
			run.Summary.Warnings,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, o := range outcomes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO outcomes (
                    run_id, row_index, token, name, status, stage, reason,
                    source_path, final_path, warning
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID,
				o.Row,
				nullableString(o.Token),
				nullableString(o.Name),
				string(o.Status),
				nullableString(o.Stage),
				nullableString(o.Reason),
				nullableString(o.SourcePath),
				nullableString(o.FinalPath),
				nullableString(o.Warning),
			); err != nil {
				return fmt.Errorf("insert outcome row %d: %w", o.Row, err)
			}
		}
		return tx.Commit()
	})
}

const runColumns = `id, profile, table_path, source_dir, destination_dir, dry_run,
    started_at, finished_at, processed, succeeded, failed, warnings`

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run whose ID equals or uniquely starts with id, together
// with its outcomes in row order.
func (s *Store) Get(ctx context.Context, id string) (Run, []report.Outcome, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, nil, errors.New("run id required")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id LIMIT 2",
		id, len(id), id,
	)
	if err != nil {
		return Run{}, nil, fmt.Errorf("get run: %w", err)
	}
	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return Run{}, nil, err
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("get run: %w", err)
	}

	switch len(matches) {
	case 0:
		return Run{}, nil, services.Wrap(services.ErrNotFound, "", "history show", fmt.Sprintf("no run matches %q", id), nil)
	case 1:
	default:
		if matches[0].ID != id {
			return Run{}, nil, services.Wrap(services.ErrAmbiguous, "", "history show", fmt.Sprintf("run id prefix %q matches more than one run", id), nil)
		}
	}
	run := matches[0]

	outcomes, err := s.outcomes(ctx, run.ID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, outcomes, nil
}

func (s *Store) outcomes(ctx context.Context, runID string) ([]report.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, token, name, status, stage, reason, source_path, final_path, warning
         FROM outcomes WHERE run_id = ? ORDER BY row_index`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []report.Outcome
	for rows.Next() {
		var (
			o                                                 report.Outcome
			status                                            string
			token, name, stage, reason, source, final, warned sql.NullString
		)
		if err := rows.Scan(&o.Row, &token, &name, &status, &stage, &reason, &source, &final, &warned); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Status = report.Status(status)
		o.Token = token.String
		o.Name = name.String
		o.Stage = stage.String
		o.Reason = reason.String
		o.SourcePath = source.String
		o.FinalPath = final.String
		o.Warning = warned.String
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run                           Run
		tablePath, sourceDir, destDir sql.NullString
		dryRun                        int
		startedRaw                    string
		finishedRaw                   sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Profile,
		&tablePath,
		&sourceDir,
		&destDir,
		&dryRun,
		&startedRaw,
		&finishedRaw,
		&run.Summary.Processed,
		&run.Summary.Succeeded,
		&run.Summary.Failed,
		&run.Summary.Warnings,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.TablePath = tablePath.String
	run.SourceDir = sourceDir.String
	run.DestinationDir = destDir.String
	run.DryRun = dryRun != 0
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = finished
		}
	}
	return run, nil
}
