package tagging_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mediasort/internal/services"
	"mediasort/internal/services/exiftool"
	"mediasort/internal/tagging"
)

type stubTool struct {
	calls  int
	path   string
	args   []string
	result exiftool.Result
	err    error
}

func (s *stubTool) Write(_ context.Context, path string, assignments []string) (exiftool.Result, error) {
	s.calls++
	s.path = path
	s.args = append([]string(nil), assignments...)
	return s.result, s.err
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2023-05-01":                "2023:05:01 00:00:00",
		"2023:05:01":                "2023:05:01 00:00:00",
		"2023-05-01 14:30":          "2023:05:01 14:30:00",
		"2023-05-01  14:30:15":      "2023:05:01 14:30:15",
		"2023-05-01T14:30:15+02:00": "2023:05:01 14:30:15",
		"05/01/2023":                "2023:05:01 00:00:00",
	}
	for input, want := range cases {
		got, err := tagging.NormalizeDate(input)
		if err != nil {
			t.Fatalf("NormalizeDate(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := tagging.NormalizeDate("sometime in May"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestAssignmentsPictures(t *testing.T) {
	got := tagging.Assignments("/p/1.JPG", "2023:05:01 00:00:00", []string{"rose", "garden"})
	want := []string{
		"-AllDates=2023:05:01 00:00:00",
		"-Keywords=rose", "-XMP-dc:Subject=rose",
		"-Keywords=garden", "-XMP-dc:Subject=garden",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestAssignmentsVideos(t *testing.T) {
	got := tagging.Assignments("/v/2.MOV", "2023:05:01 00:00:00", []string{"beach"})
	want := []string{
		"-QuickTime:CreateDate=2023:05:01 00:00:00",
		"-QuickTime:ModifyDate=2023:05:01 00:00:00",
		"-QuickTime:TrackCreateDate=2023:05:01 00:00:00",
		"-QuickTime:MediaCreateDate=2023:05:01 00:00:00",
		"-XMP-dc:Subject=beach",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestTagNoMetadataIsNoop(t *testing.T) {
	tool := &stubTool{}
	writer := tagging.NewWriter(tool, nil)
	if err := writer.Tag(context.Background(), "/p/1.jpg", "  ", []string{" "}); err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if tool.calls != 0 {
		t.Fatalf("expected no tool call, got %d", tool.calls)
	}
}

func TestTagWritesNormalizedDate(t *testing.T) {
	tool := &stubTool{result: exiftool.Result{Updated: 1}}
	writer := tagging.NewWriter(tool, nil)
	if err := writer.Tag(context.Background(), "/p/1.jpg", "2023-05-01", nil); err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if tool.path != "/p/1.jpg" || !reflect.DeepEqual(tool.args, []string{"-AllDates=2023:05:01 00:00:00"}) {
		t.Fatalf("unexpected call path=%s args=%v", tool.path, tool.args)
	}
}

func TestTagInvalidDateIsTaggingError(t *testing.T) {
	tool := &stubTool{}
	err := tagging.NewWriter(tool, nil).Tag(context.Background(), "/p/1.jpg", "not a date", nil)
	if !errors.Is(err, services.ErrTagging) {
		t.Fatalf("expected ErrTagging, got %v", err)
	}
	if tool.calls != 0 {
		t.Fatal("tool should not run for an invalid date")
	}
}

func TestTagToolFailureIsTaggingError(t *testing.T) {
	toolErr := services.Wrap(services.ErrExternalTool, services.StageTag, "exiftool", "File format error", nil)
	err := tagging.NewWriter(&stubTool{err: toolErr}, nil).Tag(context.Background(), "/p/1.jpg", "", []string{"rose"})
	if !errors.Is(err, services.ErrTagging) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected tagging and external tool markers, got %v", err)
	}
	if stage, _ := services.StageOf(err); stage != services.StageTag {
		t.Fatalf("stage = %q", stage)
	}
}

func TestReadCaptureDateWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.jpg")
	if err := os.WriteFile(path, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := tagging.ReadCaptureDate(path); err == nil {
		t.Fatal("expected error for file without EXIF")
	}
	if _, err := tagging.ReadCaptureDate(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
