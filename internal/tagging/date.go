package tagging

import (
	"fmt"
	"strings"
	"time"
)

// ExifDateLayout is the timestamp form ExifTool expects for date tags.
const ExifDateLayout = "2006:01:02 15:04:05"

var dateLayouts = []string{
	"2006-01-02",
	"2006:01:02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006:01:02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// NormalizeDate parses a Date cell and returns it in ExifDateLayout. Wall
// clock fields are kept as written; any zone offset is dropped.
func NormalizeDate(value string) (string, error) {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return "", fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(ExifDateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", value)
}
