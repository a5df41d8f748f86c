package tagging

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"mediasort/internal/logging"
	"mediasort/internal/services"
	"mediasort/internal/services/exiftool"
)

// Tool writes tag assignments to one file. *exiftool.Client satisfies it.
type Tool interface {
	Write(ctx context.Context, path string, assignments []string) (exiftool.Result, error)
}

// Writer applies row metadata through an ExifTool-compatible tool.
type Writer struct {
	tool   Tool
	logger *slog.Logger
}

// NewWriter constructs a Writer. A nil logger discards output.
func NewWriter(tool Tool, logger *slog.Logger) *Writer {
	return &Writer{tool: tool, logger: logging.NewComponentLogger(logger, "tagging")}
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".m4v": {},
}

// IsVideo reports whether path uses QuickTime date tags.
func IsVideo(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Assignments returns the ExifTool arguments for the given date and tags.
// The date must already be in ExifDateLayout.
func Assignments(path, exifDate string, tags []string) []string {
	var args []string
	video := IsVideo(path)
	if exifDate != "" {
		if video {
			for _, tag := range []string{"CreateDate", "ModifyDate", "TrackCreateDate", "MediaCreateDate"} {
				args = append(args, "-QuickTime:"+tag+"="+exifDate)
			}
		} else {
			args = append(args, "-AllDates="+exifDate)
		}
	}
	for _, tag := range tags {
		if !video {
			args = append(args, "-Keywords="+tag)
		}
		args = append(args, "-XMP-dc:Subject="+tag)
	}
	return args
}

// Tag writes date and tags into the file at path. It is a no-op when both are
// empty. Every failure is classified as services.ErrTagging.
func (w *Writer) Tag(ctx context.Context, path, date string, tags []string) error {
	date = strings.TrimSpace(date)
	tags = cleanTags(tags)
	if date == "" && len(tags) == 0 {
		return nil
	}

	var exifDate string
	if date != "" {
		normalized, err := NormalizeDate(date)
		if err != nil {
			return services.Wrap(services.ErrTagging, services.StageTag, "normalize date", "invalid date", err)
		}
		exifDate = normalized
	}
	if w.tool == nil {
		return services.Wrap(services.ErrTagging, services.StageTag, "write tags", "no tagging tool configured", nil)
	}

	assignments := Assignments(path, exifDate, tags)
	logger := logging.WithContext(ctx, w.logger)
	logger.Debug("writing metadata", logging.String("path", path), logging.Strings("args", assignments))

	result, err := w.tool.Write(ctx, path, assignments)
	if err != nil {
		return services.Wrap(services.ErrTagging, services.StageTag, "write tags", "exiftool failed", err)
	}
	for _, warning := range result.Warnings {
		logger.Warn("exiftool warning", logging.String("path", path), logging.String("reason", warning))
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
