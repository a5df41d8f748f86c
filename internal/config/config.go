package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Profile names understood by the CLI.
const (
	ProfilePictures = "pictures"
	ProfileVideos   = "videos"
)

// Paths contains directory configuration shared by every profile.
type Paths struct {
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Profile describes one media domain: where its table lives, where numbered
// files are found, where organized files go, and where the error list is written.
type Profile struct {
	Name           string `toml:"-"`
	Table          string `toml:"table"`
	SourceDir      string `toml:"source_dir"`
	DestinationDir string `toml:"destination_dir"`
	Extension      string `toml:"extension"`
	ErrorFile      string `toml:"error_file"`
}

// ExifTool contains configuration for the external tagging tool.
type ExifTool struct {
	Binary            string `toml:"binary"`
	OverwriteOriginal bool   `toml:"overwrite_original"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Policy controls how row failures affect the rest of the row and the exit code.
type Policy struct {
	// OrganizeOnTagFailure lets a row continue to the move after a failed
	// metadata write. The failure is then reported as a warning.
	OrganizeOnTagFailure bool `toml:"organize_on_tag_failure"`
	// FailOnRowErrors makes the run exit non-zero when any row failed.
	FailOnRowErrors bool `toml:"fail_on_row_errors"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediasort.
//
// Configuration sections:
//   - Paths: log directory and history database location
//   - Pictures / Videos: per-domain table, source, destination, and extension
//   - ExifTool: tagging tool binary and invocation settings
//   - Policy: tag-failure and exit-code behaviour
//   - History: run history archive toggle
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Pictures Profile  `toml:"pictures"`
	Videos   Profile  `toml:"videos"`
	ExifTool ExifTool `toml:"exiftool"`
	Policy   Policy   `toml:"policy"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediasort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediasort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories mediasort writes to on every run.
// Source and destination directories are deliberately left alone: a missing
// source is a user error, and area folders are created per row.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	if dir := filepath.Dir(c.Paths.HistoryDB); c.History.Enabled && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Profile returns the named profile. Singular forms and "photos" are accepted.
func (c *Config) Profile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProfilePictures, "picture", "photos":
		p := c.Pictures
		p.Name = ProfilePictures
		return p, nil
	case ProfileVideos, "video":
		p := c.Videos
		p.Name = ProfileVideos
		return p, nil
	default:
		return Profile{}, fmt.Errorf("unknown profile %q (expected one of: %s)", name, strings.Join(ProfileNames(), ", "))
	}
}

// ProfileNames lists the canonical profile names in display order.
func ProfileNames() []string {
	names := []string{ProfilePictures, ProfileVideos}
	sort.Strings(names)
	return names
}

// ErrorFilePath returns the absolute path of the profile's error artifact.
func (p Profile) ErrorFilePath() string {
	if filepath.IsAbs(p.ErrorFile) {
		return p.ErrorFile
	}
	return filepath.Join(p.SourceDir, p.ErrorFile)
}

// ExifToolBinary returns the tagging tool executable name.
func (c *Config) ExifToolBinary() string {
	return c.ExifTool.Binary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
