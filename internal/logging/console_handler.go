package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one header line per record followed by an indented
// field list. Info and above show curated labels; debug shows raw keys.
type consoleHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// consoleEntry is a record split into its header parts and remaining fields.
type consoleEntry struct {
	ts        time.Time
	level     slog.Level
	component string
	subject   subject
	message   string
	source    *slog.Source
	fields    []kv
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	all := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&all, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&all, h.groups, attr)
		return true
	})

	entry := consoleEntry{
		ts:      record.Time,
		level:   record.Level,
		message: strings.TrimSpace(record.Message),
		fields:  make([]kv, 0, len(all)),
	}
	if entry.ts.IsZero() {
		entry.ts = time.Now()
	}
	if entry.message == "" {
		entry.message = "(no message)"
	}
	if h.addSource {
		entry.source = record.Source()
	}
	for _, field := range dedupeKVsByKey(all) {
		switch field.key {
		case FieldComponent:
			entry.component = attrString(field.value)
			continue
		case FieldProfile:
			entry.subject.profile = attrString(field.value)
		case FieldRow:
			entry.subject.row = attrString(field.value)
		case FieldStage:
			entry.subject.stage = attrString(field.value)
		}
		entry.fields = append(entry.fields, field)
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(entry.fields)*32)
	entry.writeHeader(&buf)
	buf.WriteByte('\n')
	if entry.level < slog.LevelInfo {
		entry.writeRawFields(&buf)
	} else {
		entry.writeInfoFields(&buf)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (e consoleEntry) writeHeader(buf *bytes.Buffer) {
	buf.WriteString(formatTimestamp(e.ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(e.level))
	if e.component != "" {
		buf.WriteString(" [")
		buf.WriteString(e.component)
		buf.WriteByte(']')
	}
	if text := e.subject.String(); text != "" {
		buf.WriteByte(' ')
		buf.WriteString(text)
	}
	buf.WriteString(" – ")
	buf.WriteString(e.message)
	if e.source != nil && e.source.File != "" {
		buf.WriteString(" [")
		buf.WriteString(filepath.Base(e.source.File))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(e.source.Line))
		buf.WriteByte(']')
	}
}

func (e consoleEntry) writeInfoFields(buf *bytes.Buffer) {
	fields, hidden := selectInfoFields(e.fields, infoAttrLimit, e.level >= slog.LevelWarn)
	for _, field := range fields {
		buf.WriteString("    - ")
		buf.WriteString(field.label)
		buf.WriteString(": ")
		buf.WriteString(field.value)
		buf.WriteByte('\n')
	}
	if hidden > 0 {
		buf.WriteString("    + ")
		buf.WriteString(strconv.Itoa(hidden))
		if hidden == 1 {
			buf.WriteString(" field hidden (use --log-level debug)\n")
		} else {
			buf.WriteString(" fields hidden (use --log-level debug)\n")
		}
	}
}

func (e consoleEntry) writeRawFields(buf *bytes.Buffer) {
	for _, field := range e.fields {
		buf.WriteString("    ")
		buf.WriteString(field.key)
		buf.WriteString("=")
		buf.WriteString(formatValue(field.value))
		buf.WriteByte('\n')
	}
}

// subject identifies the row a log line belongs to, rendered as
// "Pictures · Row #3 (tag)".
type subject struct {
	profile string
	row     string
	stage   string
}

func (s subject) String() string {
	profile := strings.TrimSpace(s.profile)
	row := strings.TrimSpace(s.row)
	stage := strings.TrimSpace(s.stage)
	parts := make([]string, 0, 2)
	if profile != "" {
		parts = append(parts, capitalizeASCII(profile))
	}
	switch {
	case row != "" && stage != "":
		parts = append(parts, "Row #"+row+" ("+stage+")")
	case row != "":
		parts = append(parts, "Row #"+row)
	case stage != "":
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	return &consoleHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		addSource: h.addSource,
		attrs:     append([]slog.Attr(nil), h.attrs...),
		groups:    append([]string(nil), h.groups...),
	}
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key with its last value.
func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		flattenAttrs(dst, next, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string(nil), prefix...), attr.Key), ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
