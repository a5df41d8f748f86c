package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileExclusive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileExclusive(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileExclusiveRefusesExistingTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := CopyFileExclusive(src, dst)
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old" {
		t.Fatalf("existing target was modified: %q", got)
	}
}

func TestCopyFileExclusiveMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.bin")
	if err := CopyFileExclusive(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected no destination, got %v", err)
	}
}

func TestExistsAndSameFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(a, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, err := Exists(a)
	if err != nil || !ok {
		t.Fatalf("expected a to exist, got %v %v", ok, err)
	}
	ok, err = Exists(filepath.Join(dir, "b.jpg"))
	if err != nil || ok {
		t.Fatalf("expected b to be missing, got %v %v", ok, err)
	}

	link := filepath.Join(dir, "hard.jpg")
	if err := os.Link(a, link); err != nil {
		t.Skipf("hard links unsupported: %v", err)
	}
	same, err := SameFile(a, link)
	if err != nil || !same {
		t.Fatalf("expected hard link to be the same file, got %v %v", same, err)
	}
	other := filepath.Join(dir, "other.jpg")
	if err := os.WriteFile(other, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	same, err = SameFile(a, other)
	if err != nil || same {
		t.Fatalf("expected distinct files, got %v %v", same, err)
	}
}
