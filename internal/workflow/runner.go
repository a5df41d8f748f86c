package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mediasort/internal/config"
	"mediasort/internal/history"
	"mediasort/internal/logging"
	"mediasort/internal/organizer"
	"mediasort/internal/report"
	"mediasort/internal/resolver"
	"mediasort/internal/services"
	"mediasort/internal/table"
)

// Tagger writes a row's date and tags into a file. *tagging.Writer satisfies it.
type Tagger interface {
	Tag(ctx context.Context, path, date string, tags []string) error
}

// Runner executes batch runs for one configuration.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	tagger  Tagger
	history *history.Store
	now     func() time.Time
	newID   func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithTagger sets the metadata writer. Without one, runs whose rows carry a
// date or tags fail before touching any file.
func WithTagger(tagger Tagger) Option {
	return func(r *Runner) {
		r.tagger = tagger
	}
}

// WithHistory archives every finished run in store.
func WithHistory(store *history.Store) Option {
	return func(r *Runner) {
		r.history = store
	}
}

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner constructs a Runner. A nil logger discards output.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "workflow"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of one run.
type Result struct {
	RunID      string
	Settings   Settings
	Report     *report.Report
	FinishedAt time.Time
	// ArtifactPath is the error file written by the run; empty for dry runs.
	ArtifactPath string
}

// Summary is a shortcut for Report.Summary.
func (r *Result) Summary() report.Summary {
	return r.Report.Summary()
}

// LockPath returns the advisory lock file guarding runs of profile.
func LockPath(cfg *config.Config, profile string) string {
	return filepath.Join(cfg.Paths.LogDir, "mediasort-"+profile+".lock")
}

// Run processes every row of the profile's table. Row failures are recorded in
// the returned report; an error is returned only for fatal problems, in which
// case the result may still be non-nil when some rows were already processed.
func (r *Runner) Run(ctx context.Context, profileName string, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := r.loadBatch(profileName, opts)
	if err != nil {
		return nil, err
	}
	settings := b.settings

	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "prepare directories", "cannot create log directory", err)
	}
	if !settings.DryRun {
		lock := flock.New(LockPath(r.cfg, settings.Profile))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "", "acquire run lock", "cannot open lock file", err)
		}
		if !locked {
			return nil, services.Wrap(services.ErrConfiguration, "", "acquire run lock",
				fmt.Sprintf("another %s run is in progress", settings.Profile), nil)
		}
		defer func() { _ = lock.Unlock() }()

		if r.tagger == nil && needsMetadata(b.rows) {
			return nil, services.Wrap(services.ErrExternalTool, "", "check tagging tool",
				"rows carry dates or tags but no tagging tool is available", nil)
		}
	}

	runID := r.newID()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithProfile(ctx, settings.Profile)
	logger := logging.WithContext(ctx, r.logger)

	rep := report.New(settings.Profile, r.now())
	rep.DryRun = settings.DryRun
	result := &Result{RunID: runID, Settings: settings, Report: rep}

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("table", settings.TablePath),
		logging.String("source_dir", settings.SourceDir),
		logging.String("destination_dir", settings.DestinationDir),
		logging.Int("rows", len(b.rows)),
		logging.Bool("dry_run", settings.DryRun),
	)

	var claims map[string]int
	if settings.DryRun {
		claims = make(map[string]int)
	}
	var runErr error
	for i, row := range b.rows {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run interrupted after %d of %d rows: %w", i, len(b.rows), err)
			logger.Warn("run interrupted",
				logging.Int("processed", i),
				logging.Int("rows", len(b.rows)),
				logging.String(logging.FieldErrorHint, "re-run with a table trimmed to the remaining rows"),
			)
			break
		}
		var outcome report.Outcome
		if settings.DryRun {
			outcome = r.previewRow(ctx, settings, row, claims).outcome()
		} else {
			outcome = r.processRow(ctx, settings, row, i+1, len(b.rows))
		}
		rep.Record(outcome)
	}

	result.FinishedAt = r.now()
	if err := r.finish(ctx, result); err != nil && runErr == nil {
		runErr = err
	}
	return result, runErr
}

func (r *Runner) processRow(ctx context.Context, settings Settings, row table.Row, position, total int) report.Outcome {
	ctx = services.WithRow(ctx, row.Index)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info(fmt.Sprintf("processing file %d/%d: %s -> %s", position, total, row.Label(), row.SuggestedName))

	if err := row.Validate(); err != nil {
		return r.fail(ctx, row, services.StageResolve, err)
	}
	resolved, err := resolver.ResolveRow(row, settings.SourceDir, settings.Extension)
	if err != nil {
		return r.fail(ctx, row, services.StageResolve, err)
	}
	logger.Debug("file resolved", logging.String("path", resolved.Path))

	var warning string
	if row.HasMetadata() {
		tagCtx := services.WithStage(ctx, services.StageTag)
		if err := r.tagger.Tag(tagCtx, resolved.Path, row.Date, row.Tags); err != nil {
			if !settings.OrganizeOnTagFailure {
				return r.fail(ctx, row, services.StageTag, err)
			}
			warning = services.StageTag + ": " + services.Reason(err)
			logging.WithContext(tagCtx, r.logger).Warn("tagging failed; organizing anyway",
				logging.String(logging.FieldEventType, "tag_failed"),
				logging.Error(err),
			)
		}
	}

	finalPath, err := organizer.Organize(resolved.Path, row.SuggestedName, row.Area, settings.DestinationDir)
	if err != nil {
		outcome := r.fail(ctx, row, services.StageOrganize, err)
		outcome.Warning = warning
		return outcome
	}

	outcome := report.Success(row, resolved.Path, finalPath)
	outcome.Warning = warning
	logger.Info("file organized",
		logging.String(logging.FieldEventType, "row_success"),
		logging.String("source", resolved.Path),
		logging.String("final_path", finalPath),
	)
	return outcome
}

func (r *Runner) fail(ctx context.Context, row table.Row, stage string, err error) report.Outcome {
	outcome := report.FromError(row, stage, err)
	attrs := []any{
		logging.String(logging.FieldEventType, "row_failure"),
		logging.String("reason", outcome.Reason),
	}
	var ambiguous *services.AmbiguousError
	if errors.As(err, &ambiguous) {
		attrs = append(attrs, logging.Strings("candidates", ambiguous.Candidates))
	}
	logging.WithContext(services.WithStage(ctx, outcome.Stage), r.logger).Warn("row failed", attrs...)
	return outcome
}

// finish writes the error artifact and the history entry.
func (r *Runner) finish(ctx context.Context, result *Result) error {
	logger := logging.WithContext(ctx, r.logger)
	rep := result.Report
	summary := rep.Summary()

	var artifactErr error
	if !result.Settings.DryRun {
		if err := rep.WriteArtifact(result.Settings.ErrorFile); err != nil {
			artifactErr = services.Wrap(services.ErrConfiguration, "", "write error file",
				fmt.Sprintf("cannot write %s", result.Settings.ErrorFile), err)
			logger.Error("error file not written", logging.Error(err))
		} else {
			result.ArtifactPath = result.Settings.ErrorFile
		}
	}

	if r.history != nil {
		run := history.Run{
			ID:             result.RunID,
			Profile:        result.Settings.Profile,
			TablePath:      result.Settings.TablePath,
			SourceDir:      result.Settings.SourceDir,
			DestinationDir: result.Settings.DestinationDir,
			DryRun:         result.Settings.DryRun,
			StartedAt:      rep.StartedAt,
			FinishedAt:     result.FinishedAt,
			Summary:        summary,
		}
		if err := r.history.Record(ctx, run, rep.Outcomes()); err != nil {
			logger.Warn("run history not recorded",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.history_db or disable history"),
			)
		}
	}

	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("processed", summary.Processed),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("warnings", summary.Warnings),
		logging.Duration("duration", result.FinishedAt.Sub(rep.StartedAt)),
		logging.String("error_file", result.ArtifactPath),
	)
	return artifactErr
}

func needsMetadata(rows []table.Row) bool {
	for _, row := range rows {
		if row.HasMetadata() {
			return true
		}
	}
	return false
}
