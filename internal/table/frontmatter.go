package table

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"mediasort/internal/services"
)

// Overrides are per-table settings declared in YAML front matter. Empty fields
// leave the configured profile value in place.
type Overrides struct {
	SourceDir      string `yaml:"source_dir"`
	DestinationDir string `yaml:"destination_dir"`
	Extension      string `yaml:"extension"`
}

// IsZero reports whether no override was declared.
func (o Overrides) IsZero() bool {
	return o.SourceDir == "" && o.DestinationDir == "" && o.Extension == ""
}

var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// splitFrontMatter separates optional YAML front matter from the markdown body.
// Content without front matter is returned unchanged.
func splitFrontMatter(source []byte) (Overrides, []byte, error) {
	var overrides Overrides
	body, err := frontmatter.Parse(bytes.NewReader(source), &overrides, yamlFrontMatter)
	if err != nil {
		return Overrides{}, nil, services.Wrap(services.ErrFormat, "", "parse front matter", "invalid front matter", fmt.Errorf("parse frontmatter: %w", err))
	}
	overrides.SourceDir = strings.TrimSpace(overrides.SourceDir)
	overrides.DestinationDir = strings.TrimSpace(overrides.DestinationDir)
	overrides.Extension = strings.TrimSpace(overrides.Extension)
	return overrides, body, nil
}
