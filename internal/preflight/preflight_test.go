package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediasort/internal/config"
)

type stubTool struct {
	version string
	err     error
}

func (s stubTool) Version(context.Context) (string, error) {
	return s.version, s.err
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	base := t.TempDir()
	if result := CheckCreatableDirectory("dest", filepath.Join(base, "a", "b")); !result.Passed {
		t.Fatalf("expected creatable nested dir, got %s", result.Detail)
	}
	if result := CheckCreatableDirectory("dest", base); !result.Passed {
		t.Fatalf("expected existing dir to pass, got %s", result.Detail)
	}

	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCreatableDirectory("dest", filepath.Join(file, "child")); result.Passed {
		t.Fatal("expected failure below a regular file")
	}
}

func TestCheckReadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.md")
	if err := os.WriteFile(path, []byte("| a |"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("Table", path); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckReadableFile("Table", filepath.Dir(path)); result.Passed {
		t.Fatal("expected failure for a directory")
	}
}

func TestRunAll(t *testing.T) {
	src := t.TempDir()
	profile := config.Profile{Name: "pictures", SourceDir: src, DestinationDir: filepath.Join(src, "library")}

	results := RunAll(context.Background(), profile, Options{Tool: stubTool{version: "12.76"}})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures %+v", failed)
	}
	if results[2].Detail != "version 12.76" {
		t.Fatalf("unexpected tool detail %q", results[2].Detail)
	}

	results = RunAll(context.Background(), profile, Options{
		Tool:      stubTool{err: errors.New("exiftool not found")},
		TablePath: filepath.Join(src, "missing.md"),
	})
	failed := Failed(results)
	if len(failed) != 2 || failed[0].Name != "Table" || failed[1].Name != "ExifTool" {
		t.Fatalf("unexpected failures %+v", failed)
	}
}
