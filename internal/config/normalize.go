package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Pictures.Name = ProfilePictures
	if err := c.Pictures.normalize(defaultPicturesErrorFile); err != nil {
		return fmt.Errorf("pictures.%w", err)
	}
	c.Videos.Name = ProfileVideos
	if err := c.Videos.normalize(defaultVideosErrorFile); err != nil {
		return fmt.Errorf("videos.%w", err)
	}
	c.normalizeExifTool()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(c.Paths.LogDir, defaultHistoryDBName)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (p *Profile) normalize(defaultErrorFile string) error {
	var err error
	if p.SourceDir, err = expandPath(strings.TrimSpace(p.SourceDir)); err != nil {
		return fmt.Errorf("source_dir: %w", err)
	}
	if strings.TrimSpace(p.DestinationDir) == "" {
		p.DestinationDir = p.SourceDir
	}
	if p.DestinationDir, err = expandPath(strings.TrimSpace(p.DestinationDir)); err != nil {
		return fmt.Errorf("destination_dir: %w", err)
	}
	if p.Table, err = expandPath(strings.TrimSpace(p.Table)); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	p.Extension = NormalizeExtension(p.Extension)
	p.ErrorFile = strings.TrimSpace(p.ErrorFile)
	if p.ErrorFile == "" {
		p.ErrorFile = defaultErrorFile
	}
	if strings.HasPrefix(p.ErrorFile, "~") {
		if p.ErrorFile, err = expandPath(p.ErrorFile); err != nil {
			return fmt.Errorf("error_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeExifTool() {
	if value, ok := os.LookupEnv("MEDIASORT_EXIFTOOL"); ok && strings.TrimSpace(value) != "" {
		c.ExifTool.Binary = value
	}
	c.ExifTool.Binary = strings.TrimSpace(c.ExifTool.Binary)
	if c.ExifTool.Binary == "" {
		c.ExifTool.Binary = defaultExifToolBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// NormalizeExtension lowercases an extension and strips surrounding
// whitespace and any leading dots: ".JPG" becomes "jpg".
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(ext), "."))
}
