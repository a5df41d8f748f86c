package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes size bytes to path, creating parent directories. A size
// <= 0 writes a single byte. The content is derived from the file name so
// two fixtures of equal size still differ.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	seed := []byte(filepath.Base(path))
	data := make([]byte, size)
	for i := range data {
		data[i] = seed[i%len(seed)]
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMedia creates empty-ish placeholder media files named after the given
// file names inside dir and returns their paths.
func WriteMedia(t testing.TB, dir string, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for i, name := range names {
		path := filepath.Join(dir, name)
		WriteFile(t, path, int64(16+i))
		paths = append(paths, path)
	}
	return paths
}

// WriteTable writes markdown table content to path and returns path.
func WriteTable(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write table %s: %v", path, err)
	}
	return path
}
