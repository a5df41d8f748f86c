package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediasort/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEDIASORT_EXIFTOOL", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "mediasort", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, ".local", "share", "mediasort", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if want := filepath.Join(cfg.Paths.LogDir, "history.db"); cfg.Paths.HistoryDB != want {
		t.Fatalf("unexpected history db: got %q want %q", cfg.Paths.HistoryDB, want)
	}
	if cfg.Pictures.SourceDir != filepath.Join(tempHome, "Pictures") {
		t.Fatalf("unexpected pictures source: %q", cfg.Pictures.SourceDir)
	}
	if cfg.Pictures.Extension != "jpg" || cfg.Videos.Extension != "mp4" {
		t.Fatalf("unexpected extensions: %q %q", cfg.Pictures.Extension, cfg.Videos.Extension)
	}
	if cfg.Pictures.Name != config.ProfilePictures || cfg.Videos.Name != config.ProfileVideos {
		t.Fatalf("expected profile names to be stamped, got %q %q", cfg.Pictures.Name, cfg.Videos.Name)
	}
	if got := cfg.Pictures.ErrorFilePath(); got != filepath.Join(tempHome, "Pictures", "picture_errors.txt") {
		t.Fatalf("unexpected error file path %q", got)
	}
	if cfg.Policy.OrganizeOnTagFailure {
		t.Fatal("expected tagging failures to block organize by default")
	}
	if !cfg.Policy.FailOnRowErrors {
		t.Fatal("expected row errors to fail the run by default")
	}
	if cfg.ExifToolBinary() != "exiftool" {
		t.Fatalf("unexpected exiftool binary %q", cfg.ExifToolBinary())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mediasort.toml")

	type payload struct {
		Pictures struct {
			SourceDir string `toml:"source_dir"`
			Extension string `toml:"extension"`
			ErrorFile string `toml:"error_file"`
		} `toml:"pictures"`
		Policy struct {
			OrganizeOnTagFailure bool `toml:"organize_on_tag_failure"`
		} `toml:"policy"`
	}
	custom := payload{}
	custom.Pictures.SourceDir = filepath.Join(tempDir, "in")
	custom.Pictures.Extension = ".JPEG"
	custom.Pictures.ErrorFile = filepath.Join(tempDir, "errors.txt")
	custom.Policy.OrganizeOnTagFailure = true

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Pictures.Extension != "jpeg" {
		t.Fatalf("expected normalized extension, got %q", cfg.Pictures.Extension)
	}
	if cfg.Pictures.DestinationDir == "" {
		t.Fatal("expected destination dir to default")
	}
	if cfg.Pictures.ErrorFilePath() != filepath.Join(tempDir, "errors.txt") {
		t.Fatalf("expected absolute error file to be kept, got %q", cfg.Pictures.ErrorFilePath())
	}
	if !cfg.Policy.OrganizeOnTagFailure {
		t.Fatal("expected policy override to be applied")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[pictures]\nsource_directory = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"extension", func(c *config.Config) { c.Pictures.Extension = "j/pg" }, "pictures.extension"},
		{"empty extension", func(c *config.Config) { c.Videos.Extension = "" }, "videos.extension"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"timeout", func(c *config.Config) { c.ExifTool.TimeoutSeconds = -1 }, "exiftool.timeout_seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Pictures.Name = config.ProfilePictures
			cfg.Videos.Name = config.ProfileVideos
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestProfileLookup(t *testing.T) {
	cfg := config.Default()
	for _, name := range []string{"pictures", "Picture", "photos"} {
		p, err := cfg.Profile(name)
		if err != nil || p.Extension != "jpg" {
			t.Fatalf("Profile(%q) = %+v, %v", name, p, err)
		}
	}
	if p, err := cfg.Profile("videos"); err != nil || p.Extension != "mp4" {
		t.Fatalf("unexpected videos profile %+v, %v", p, err)
	}
	if _, err := cfg.Profile("music"); err == nil {
		t.Fatal("expected unknown profile error")
	}
}

func TestEnvOverridesExifTool(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIASORT_EXIFTOOL", "/opt/exiftool/exiftool")
	t.Chdir(t.TempDir())
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ExifToolBinary() != "/opt/exiftool/exiftool" {
		t.Fatalf("expected env override, got %q", cfg.ExifToolBinary())
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/Pictures")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "Pictures") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("expected empty path to stay empty, got %q", got)
	}
}
