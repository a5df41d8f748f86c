// Package resolver maps a table file token such as "1", "007" or "3.jpg" to
// the single file it names inside a source directory.
package resolver

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mediasort/internal/config"
	"mediasort/internal/services"
	"mediasort/internal/table"
)

// ResolvedFile pairs a row with the existing file it refers to.
type ResolvedFile struct {
	Row  table.Row
	Path string
	// Ext keeps the leading dot and the file's original case.
	Ext string
}

// rule returns the candidate paths one numbering convention accepts. A rule
// with no opinion returns nil.
type rule func(t token, entries []os.DirEntry, dir string) []string

// rules are tried in order until one yields at least one candidate.
var rules = []rule{exactName, numericValue}

type token struct {
	raw    string
	stem   string
	ext    string // normalized, no dot; empty when the token has none
	number *big.Int
}

func parseToken(raw, expectedExt string) token {
	raw = strings.TrimSpace(raw)
	t := token{raw: raw, stem: raw}
	if ext := filepath.Ext(raw); ext != "" && ext != raw {
		t.stem = strings.TrimSuffix(raw, ext)
		t.ext = config.NormalizeExtension(ext)
	}
	if t.ext == "" {
		t.ext = config.NormalizeExtension(expectedExt)
	}
	t.number = parseDigits(t.stem)
	return t
}

func (t token) hasExplicitExt() bool {
	return t.stem != t.raw
}

// Resolve finds the file named by rawToken in sourceDir. An extension on the
// token overrides expectedExt. Zero matches yield services.ErrNotFound and
// several yield a *services.AmbiguousError listing every candidate.
func Resolve(rawToken, sourceDir, expectedExt string) (string, error) {
	t := parseToken(rawToken, expectedExt)
	if t.raw == "" {
		return "", services.Wrap(services.ErrNotFound, services.StageResolve, "resolve file", "empty file token", nil)
	}

	dir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, services.StageResolve, "resolve file", "invalid source directory", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, services.StageResolve, "resolve file", "read source directory", err)
	}

	for _, r := range rules {
		candidates := r(t, entries, dir)
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return candidates[0], nil
		default:
			sort.Strings(candidates)
			return "", services.Wrap(services.ErrAmbiguous, services.StageResolve, "resolve file", "", &services.AmbiguousError{
				Token:      t.raw,
				Candidates: candidates,
			})
		}
	}

	if t.number == nil {
		return "", services.Wrap(services.ErrNotFound, services.StageResolve, "resolve file",
			fmt.Sprintf("no file matches %q (only numbered files are supported)", t.raw), nil)
	}
	return "", services.Wrap(services.ErrNotFound, services.StageResolve, "resolve file",
		fmt.Sprintf("no .%s file numbered %s in %s", t.ext, t.number.String(), dir), nil)
}

// ResolveRow resolves the row's file token and returns the resolved file.
func ResolveRow(row table.Row, sourceDir, expectedExt string) (ResolvedFile, error) {
	path, err := Resolve(row.FileToken, sourceDir, expectedExt)
	if err != nil {
		return ResolvedFile{}, err
	}
	return ResolvedFile{Row: row, Path: path, Ext: filepath.Ext(path)}, nil
}

// exactName matches a token that carries its own extension against the
// directory listing, comparing extensions case-insensitively.
func exactName(t token, entries []os.DirEntry, dir string) []string {
	if !t.hasExplicitExt() || t.number == nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if strings.TrimSuffix(name, ext) != t.stem || config.NormalizeExtension(ext) != t.ext {
			continue
		}
		if path, ok := regularFile(dir, entry); ok {
			out = append(out, path)
		}
	}
	return out
}

// numericValue matches files whose all-digit stem has the token's integer
// value, so 1, 01 and 001 are the same file number.
func numericValue(t token, entries []os.DirEntry, dir string) []string {
	if t.number == nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if config.NormalizeExtension(ext) != t.ext {
			continue
		}
		n := parseDigits(strings.TrimSuffix(name, ext))
		if n == nil || n.Cmp(t.number) != 0 {
			continue
		}
		if path, ok := regularFile(dir, entry); ok {
			out = append(out, path)
		}
	}
	return out
}

func regularFile(dir string, entry os.DirEntry) (string, bool) {
	path := filepath.Join(dir, entry.Name())
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	return path, info.Mode().IsRegular()
}

// parseDigits returns the integer value of an ASCII digit string, or nil when
// s is empty or contains anything else.
func parseDigits(s string) *big.Int {
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return n
}
