package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediasort/internal/fileutil"
	"mediasort/internal/services"
	"mediasort/internal/textutil"
)

// Target returns the path Organize would move path to, without touching the
// filesystem. The extension of path is kept with its original case.
func Target(path, suggestedName, area, destinationRoot string) (string, error) {
	folder, err := safeName(area, "area")
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(path)
	name := textutil.SanitizeFileName(suggestedName)
	if ext != "" && strings.EqualFold(filepath.Ext(name), ext) {
		name = textutil.SanitizeFileName(name[:len(name)-len(ext)])
	}
	base, err := safeName(name, "suggested name")
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(destinationRoot)
	if err != nil {
		return "", services.Wrap(services.ErrOrganize, services.StageOrganize, "resolve destination", "invalid destination root", err)
	}
	return filepath.Join(root, folder, base+ext), nil
}

// Organize moves path into destinationRoot/<area>/<suggested name><ext> and
// returns the final path. An existing different file at the target is a
// collision and is never overwritten; the same file already in place is a
// successful no-op.
func Organize(path, suggestedName, area, destinationRoot string) (string, error) {
	target, err := Target(path, suggestedName, area, destinationRoot)
	if err != nil {
		return "", err
	}

	if err := ensureFolder(filepath.Dir(target)); err != nil {
		return "", err
	}

	exists, err := fileutil.Exists(target)
	if err != nil {
		return "", services.Wrap(services.ErrOrganize, services.StageOrganize, "check target", "cannot inspect target", err)
	}
	if exists {
		same, err := fileutil.SameFile(path, target)
		if err != nil {
			return "", services.Wrap(services.ErrOrganize, services.StageOrganize, "check target", "cannot compare with target", err)
		}
		if !same {
			return "", services.Wrap(
				services.ErrOrganize,
				services.StageOrganize,
				"move file",
				fmt.Sprintf("target already exists: %s", target),
				nil,
			)
		}
		if filepath.Clean(path) == target {
			return target, nil
		}
	}

	if err := moveFile(path, target); err != nil {
		return "", services.Wrap(services.ErrOrganize, services.StageOrganize, "move file", "move failed", err)
	}
	return target, nil
}

func safeName(raw, what string) (string, error) {
	name := textutil.SanitizeFileName(raw)
	switch name {
	case "", ".", "..":
		return "", services.Wrap(
			services.ErrOrganize,
			services.StageOrganize,
			"sanitize name",
			fmt.Sprintf("%s %q is empty after sanitizing", what, raw),
			nil,
		)
	}
	return name, nil
}

func ensureFolder(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return services.Wrap(services.ErrOrganize, services.StageOrganize, "create folder", fmt.Sprintf("%s exists and is not a directory", dir), nil)
	case err == nil:
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return services.Wrap(services.ErrOrganize, services.StageOrganize, "create folder", "cannot inspect folder", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrOrganize, services.StageOrganize, "create folder", "cannot create folder", err)
	}
	return nil
}
