package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.Pictures.Validate(); err != nil {
		return err
	}
	if err := c.Videos.Validate(); err != nil {
		return err
	}
	if err := c.validateExifTool(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// Validate checks a single profile. It is also used after command-line
// overrides have been applied.
func (p Profile) Validate() error {
	name := p.Name
	if name == "" {
		name = "profile"
	}
	if strings.TrimSpace(p.SourceDir) == "" {
		return fmt.Errorf("%s.source_dir must be set", name)
	}
	if strings.TrimSpace(p.DestinationDir) == "" {
		return fmt.Errorf("%s.destination_dir must be set", name)
	}
	if strings.TrimSpace(p.Table) == "" {
		return fmt.Errorf("%s.table must be set", name)
	}
	if p.Extension == "" {
		return fmt.Errorf("%s.extension must be set", name)
	}
	for _, r := range p.Extension {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("%s.extension %q must be alphanumeric", name, p.Extension)
		}
	}
	return nil
}

func (c *Config) validateExifTool() error {
	if c.ExifTool.TimeoutSeconds < 0 {
		return errors.New("exiftool.timeout_seconds must be zero (no timeout) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
