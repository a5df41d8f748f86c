package workflow_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"mediasort/internal/services"
	"mediasort/internal/testsupport"
	"mediasort/internal/workflow"
)

func TestPlanPreviewsWithoutMoving(t *testing.T) {
	table := `| Current File Name | Suggested File Name | Date | Area |
|---|---|---|---|
| 1 | Rose | 2023-05-01 | Garden |
| 2 | Rose | | Garden |
| 3 | Tulip | someday | Garden |
| 9 | Lily | | Garden |
`
	cfg := setup(t, table, "1.jpg", "2.jpg", "3.jpg")

	plan, err := workflow.NewRunner(cfg, nil).Plan(context.Background(), "pictures", workflow.Options{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Entries) != 4 || plan.Problems() != 3 {
		t.Fatalf("unexpected plan: %d entries, %d problems", len(plan.Entries), plan.Problems())
	}

	first := plan.Entries[0]
	if !first.OK() || first.Target != filepath.Join(cfg.Pictures.DestinationDir, "Garden", "Rose.jpg") {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if !first.CaptureDate.IsZero() {
		t.Fatalf("placeholder file has no EXIF date, got %s", first.CaptureDate)
	}
	if e := plan.Entries[1]; e.Stage != services.StageOrganize || !strings.Contains(e.Problem, "claimed by row 1") {
		t.Fatalf("expected duplicate target problem, got %+v", e)
	}
	if e := plan.Entries[2]; e.Stage != services.StageTag || !strings.Contains(e.Problem, "invalid date") {
		t.Fatalf("expected invalid date problem, got %+v", e)
	}
	if e := plan.Entries[3]; e.Stage != services.StageResolve || e.Source != "" {
		t.Fatalf("expected not found problem, got %+v", e)
	}

	assertExists(t, filepath.Join(cfg.Pictures.SourceDir, "1.jpg"))
	assertMissing(t, cfg.Pictures.DestinationDir)
}

func TestPlanFlagOverridesFrontMatter(t *testing.T) {
	cfg := setup(t, "---\nsource_dir: elsewhere\n---\n| Current File Name | Suggested File Name | Area |\n|---|---|---|\n| 5 | Ivy | Walls |\n")
	flagDir := filepath.Join(testsupport.BaseDir(cfg), "flag")
	testsupport.WriteMedia(t, flagDir, "5.jpg")

	plan, err := workflow.NewRunner(cfg, nil).Plan(context.Background(), "pictures", workflow.Options{SourceDir: flagDir})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Settings.SourceDir != flagDir {
		t.Fatalf("source dir = %q, want %q", plan.Settings.SourceDir, flagDir)
	}
	if !plan.Entries[0].OK() {
		t.Fatalf("unexpected problem %+v", plan.Entries[0])
	}
}
