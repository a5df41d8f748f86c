package table

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"mediasort/internal/services"
)

// Document is the parsed content of a naming table file.
type Document struct {
	Rows      []Row
	Overrides Overrides
}

// Parse reads the markdown source and returns its rows in table order. The
// first pipe table with at least one recognized column is used. A missing
// required column, a repeated recognized column, or the absence of any such
// table is a format error and no rows are returned.
func Parse(source []byte) (*Document, error) {
	overrides, body, err := splitFrontMatter(source)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(body))

	var (
		found   bool
		rows    []Row
		bodyErr error
	)
	walkErr := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found {
			return ast.WalkContinue, nil
		}
		tbl, ok := node.(*east.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		positions, recognized, err := headerPositions(tbl, body)
		if err != nil {
			bodyErr = err
			return ast.WalkStop, nil
		}
		if !recognized {
			return ast.WalkSkipChildren, nil
		}
		found = true
		if missing := missingColumns(positions); len(missing) > 0 {
			bodyErr = services.Wrap(
				services.ErrFormat,
				"",
				"parse table",
				fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", ")),
				nil,
			)
			return ast.WalkStop, nil
		}
		rows = dataRows(tbl, body, positions)
		return ast.WalkStop, nil
	})
	if walkErr != nil {
		return nil, services.Wrap(services.ErrFormat, "", "parse table", "walk markdown", walkErr)
	}
	if bodyErr != nil {
		return nil, bodyErr
	}
	if !found {
		return nil, services.Wrap(services.ErrFormat, "", "parse table", "no table with recognized columns found", nil)
	}

	return &Document{Rows: rows, Overrides: overrides}, nil
}

// headerPositions maps recognized columns to their cell index. recognized is
// false when the header carries none of the known column names.
func headerPositions(tbl *east.Table, source []byte) (map[Column]int, bool, error) {
	header, ok := tbl.FirstChild().(*east.TableHeader)
	if !ok {
		return nil, false, nil
	}
	positions := make(map[Column]int)
	for idx, cell := range cellTexts(header, source) {
		col, ok := lookupColumn(cell)
		if !ok {
			continue
		}
		if _, dup := positions[col]; dup {
			return nil, false, services.Wrap(
				services.ErrFormat,
				"",
				"parse table",
				fmt.Sprintf("column %q appears more than once", col.String()),
				nil,
			)
		}
		positions[col] = idx
	}
	return positions, len(positions) > 0, nil
}

func dataRows(tbl *east.Table, source []byte, positions map[Column]int) []Row {
	var rows []Row
	for node := tbl.FirstChild(); node != nil; node = node.NextSibling() {
		tr, ok := node.(*east.TableRow)
		if !ok || !pipeLine(tr, source) {
			continue
		}
		cells := cellTexts(tr, source)
		cell := func(col Column) string {
			idx, ok := positions[col]
			if !ok || idx >= len(cells) {
				return ""
			}
			return cells[idx]
		}
		rows = append(rows, Row{
			Index:         len(rows) + 1,
			FileToken:     cell(ColumnFileName),
			SuggestedName: cell(ColumnSuggestedName),
			Date:          cell(ColumnDate),
			Tags:          splitTags(cell(ColumnTags)),
			Area:          cell(ColumnArea),
		})
	}
	return rows
}

// pipeLine reports whether the source line of a data row starts with "|".
// GFM also continues a table with plain text lines, which are not rows here.
func pipeLine(tr *east.TableRow, source []byte) bool {
	for node := tr.FirstChild(); node != nil; node = node.NextSibling() {
		lines := node.Lines()
		if lines.Len() == 0 {
			continue
		}
		start := lines.At(0).Start
		for start > 0 && source[start-1] != '\n' {
			start--
		}
		line := bytes.TrimLeft(source[start:], " \t")
		return len(line) > 0 && line[0] == '|'
	}
	return false
}

// cellTexts returns the raw source text of each cell in a header or row,
// trimmed, with escaped pipes restored. Inline markup is kept verbatim.
func cellTexts(parent ast.Node, source []byte) []string {
	var cells []string
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		if _, ok := node.(*east.TableCell); !ok {
			continue
		}
		cells = append(cells, rawCellText(node, source))
	}
	return cells
}

func rawCellText(cell ast.Node, source []byte) string {
	var b strings.Builder
	lines := cell.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSpace(strings.ReplaceAll(b.String(), `\|`, "|"))
}
