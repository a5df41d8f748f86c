package table

import (
	"strings"

	"mediasort/internal/textutil"
)

// Column identifies one recognized header of the naming table.
type Column int

const (
	ColumnFileName Column = iota
	ColumnSuggestedName
	ColumnDate
	ColumnTags
	ColumnArea
)

var columnLabels = map[Column]string{
	ColumnFileName:      "Current File Name",
	ColumnSuggestedName: "Suggested File Name",
	ColumnDate:          "Date",
	ColumnTags:          "Tags",
	ColumnArea:          "Area",
}

var requiredColumns = []Column{ColumnFileName, ColumnSuggestedName, ColumnArea}

// columnsByKey maps the folded header form to its column.
var columnsByKey = func() map[string]Column {
	out := make(map[string]Column, len(columnLabels))
	for col, label := range columnLabels {
		out[textutil.FoldKey(label)] = col
	}
	return out
}()

func (c Column) String() string {
	if label, ok := columnLabels[c]; ok {
		return label
	}
	return "unknown"
}

// lookupColumn matches a header cell against the recognized columns,
// ignoring case and whitespace.
func lookupColumn(header string) (Column, bool) {
	key := textutil.FoldKey(header)
	if key == "" {
		return 0, false
	}
	col, ok := columnsByKey[key]
	return col, ok
}

func missingColumns(positions map[Column]int) []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := positions[col]; !ok {
			missing = append(missing, col.String())
		}
	}
	return missing
}

// splitTags splits a Tags cell on semicolons, dropping empty entries.
func splitTags(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
