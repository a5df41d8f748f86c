package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediasort/internal/config"
	"mediasort/internal/services"
	"mediasort/internal/table"
)

// Options are per-invocation overrides supplied by the CLI. Empty values fall
// back to table front matter, then to the profile configuration.
type Options struct {
	TablePath      string
	SourceDir      string
	DestinationDir string
	Extension      string
	DryRun         bool
	// OrganizeOnTagFailure overrides policy.organize_on_tag_failure when set.
	OrganizeOnTagFailure *bool
}

// Settings are the effective values of one run after all overrides.
type Settings struct {
	Profile              string
	TablePath            string
	SourceDir            string
	DestinationDir       string
	Extension            string
	ErrorFile            string
	OrganizeOnTagFailure bool
	DryRun               bool
}

// batch is a parsed table together with the settings it runs under.
type batch struct {
	settings Settings
	rows     []table.Row
}

func (r *Runner) loadBatch(profileName string, opts Options) (*batch, error) {
	profile, err := r.cfg.Profile(profileName)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "select profile", err.Error(), nil)
	}

	tablePath := firstNonEmpty(opts.TablePath, profile.Table)
	if tablePath == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "locate table", fmt.Sprintf("no table configured for %s", profile.Name), nil)
	}
	if tablePath, err = config.ExpandPath(tablePath); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "locate table", "invalid table path", err)
	}
	source, err := os.ReadFile(tablePath)
	if err != nil {
		return nil, services.Wrap(services.ErrFormat, "", "read table", fmt.Sprintf("cannot read %s", tablePath), err)
	}
	doc, err := table.Parse(source)
	if err != nil {
		return nil, err
	}

	tableDir := filepath.Dir(tablePath)
	settings := Settings{
		Profile:              profile.Name,
		TablePath:            tablePath,
		Extension:            config.NormalizeExtension(firstNonEmpty(opts.Extension, doc.Overrides.Extension, profile.Extension)),
		OrganizeOnTagFailure: r.cfg.Policy.OrganizeOnTagFailure,
		DryRun:               opts.DryRun,
	}
	if opts.OrganizeOnTagFailure != nil {
		settings.OrganizeOnTagFailure = *opts.OrganizeOnTagFailure
	}
	if settings.SourceDir, err = resolveDir(opts.SourceDir, doc.Overrides.SourceDir, profile.SourceDir, tableDir); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "resolve source directory", "invalid source directory", err)
	}
	// An overridden source without an explicit destination keeps files next to their source.
	destFallback := profile.DestinationDir
	if (opts.SourceDir != "" || doc.Overrides.SourceDir != "") && profile.DestinationDir == profile.SourceDir {
		destFallback = settings.SourceDir
	}
	if settings.DestinationDir, err = resolveDir(opts.DestinationDir, doc.Overrides.DestinationDir, destFallback, tableDir); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "resolve destination", "invalid destination directory", err)
	}
	effective := profile
	effective.SourceDir = settings.SourceDir
	settings.ErrorFile = effective.ErrorFilePath()

	return &batch{settings: settings, rows: doc.Rows}, nil
}

// resolveDir picks the first set value. Front matter paths are relative to
// the table's directory; flag paths are relative to the working directory.
func resolveDir(flag, frontMatter, configured, tableDir string) (string, error) {
	switch {
	case strings.TrimSpace(flag) != "":
		return config.ExpandPath(strings.TrimSpace(flag))
	case strings.TrimSpace(frontMatter) != "":
		value := strings.TrimSpace(frontMatter)
		if !filepath.IsAbs(value) && !strings.HasPrefix(value, "~") {
			value = filepath.Join(tableDir, value)
		}
		return config.ExpandPath(value)
	default:
		return config.ExpandPath(configured)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
