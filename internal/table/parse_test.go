package table_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"mediasort/internal/services"
	"mediasort/internal/table"
)

const sampleTable = `# Garden shots

| Current File Name | Suggested File Name | Date       | Tags          | Area   |
|-------------------|---------------------|------------|---------------|--------|
| 1                 | Red Rose            | 2023-05-01 | rose; garden  | Garden |
| 2                 | Oak                 |            |               | Trees  |
`

func TestParseProducesTrimmedRows(t *testing.T) {
	doc, err := table.Parse([]byte(sampleTable))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []table.Row{
		{Index: 1, FileToken: "1", SuggestedName: "Red Rose", Date: "2023-05-01", Tags: []string{"rose", "garden"}, Area: "Garden"},
		{Index: 2, FileToken: "2", SuggestedName: "Oak", Area: "Trees"},
	}
	if !reflect.DeepEqual(doc.Rows, want) {
		t.Fatalf("rows mismatch\n got: %#v\nwant: %#v", doc.Rows, want)
	}
	if !doc.Overrides.IsZero() {
		t.Fatalf("expected no overrides, got %+v", doc.Overrides)
	}
}

func TestParseHeaderOrderAndCaseIndependent(t *testing.T) {
	src := `| AREA | tags | suggested   file name | current file NAME | date |
| --- | --- | --- | --- | --- |
| Garden | rose | Red Rose | 01 | 2023:05:01 |
`
	doc, err := table.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(doc.Rows))
	}
	got := doc.Rows[0]
	if got.FileToken != "01" || got.SuggestedName != "Red Rose" || got.Area != "Garden" || got.Date != "2023:05:01" {
		t.Fatalf("unexpected row %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"rose"}) {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
}

func TestParseIgnoresUnknownColumnsAndOptionalAbsent(t *testing.T) {
	src := `| Notes | Current File Name | Suggested File Name | Area |
|---|---|---|---|
| skip me | 3 | Tulip | Beds |
`
	doc, err := table.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	row := doc.Rows[0]
	if row.Date != "" || row.Tags != nil {
		t.Fatalf("expected empty optional fields, got %+v", row)
	}
	if row.FileToken != "3" || row.SuggestedName != "Tulip" || row.Area != "Beds" {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestParseMissingRequiredColumn(t *testing.T) {
	src := `| Current File Name | Suggested File Name | Date |
|---|---|---|
| 1 | Rose | 2023-05-01 |
`
	doc, err := table.Parse([]byte(src))
	if err == nil {
		t.Fatal("expected format error")
	}
	if doc != nil {
		t.Fatalf("expected no document, got %+v", doc)
	}
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "Area") {
		t.Fatalf("expected missing column named, got %v", err)
	}
}

func TestParseDuplicateColumn(t *testing.T) {
	src := `| Area | Current File Name | Suggested File Name | area |
|---|---|---|---|
| A | 1 | Rose | B |
`
	if _, err := table.Parse([]byte(src)); !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat for repeated column, got %v", err)
	}
}

func TestParseNoTable(t *testing.T) {
	if _, err := table.Parse([]byte("# Nothing here\n\nJust prose.\n")); !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestParseSkipsUnrelatedTables(t *testing.T) {
	src := `| Key | Value |
|---|---|
| a | b |

| Current File Name | Suggested File Name | Area |
|---|---|---|
| 4 | Daisy | Beds |
`
	doc, err := table.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Rows) != 1 || doc.Rows[0].SuggestedName != "Daisy" {
		t.Fatalf("unexpected rows %+v", doc.Rows)
	}
}

func TestParseKeepsRowsMissingRequiredFields(t *testing.T) {
	src := `| Current File Name | Suggested File Name | Area |
|---|---|---|
| 1 | Rose | Garden |
|   | Ghost | Garden |
| 3 | Fern |  |
`
	doc, err := table.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(doc.Rows))
	}
	if err := doc.Rows[0].Validate(); err != nil {
		t.Fatalf("row 1 should validate: %v", err)
	}
	err = doc.Rows[1].Validate()
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("row 2: expected ErrValidation, got %v", err)
	}
	if reason := services.Reason(err); reason != "missing required field: Current File Name" {
		t.Fatalf("row 2 reason = %q", reason)
	}
	if stage, _ := services.StageOf(err); stage != services.StageResolve {
		t.Fatalf("row 2 stage = %q", stage)
	}
	if label := doc.Rows[1].Label(); label != "row 2" {
		t.Fatalf("row 2 label = %q", label)
	}
	if reason := services.Reason(doc.Rows[2].Validate()); reason != "missing required field: Area" {
		t.Fatalf("row 3 reason = %q", reason)
	}
}

func TestParseFrontMatterOverrides(t *testing.T) {
	src := `---
source_dir: /media/card
extension: MOV
---
| Current File Name | Suggested File Name | Area |
|---|---|---|
| 1 | Beach | Trips |
`
	doc, err := table.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Overrides.SourceDir != "/media/card" || doc.Overrides.Extension != "MOV" || doc.Overrides.DestinationDir != "" {
		t.Fatalf("unexpected overrides %+v", doc.Overrides)
	}
	if len(doc.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(doc.Rows))
	}
}

func TestParseShortRowTreatsAbsentCellsAsEmpty(t *testing.T) {
	src := `| Current File Name | Suggested File Name | Area | Tags |
|---|---|---|---|
| 5 | Lily |
`
	doc, err := table.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	row := doc.Rows[0]
	if row.FileToken != "5" || row.SuggestedName != "Lily" || row.Area != "" || row.Tags != nil {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestParseKeepsInlineMarkupVerbatim(t *testing.T) {
	src := `| Current File Name | Suggested File Name | Tags | Area |
|---|---|---|---|
| _draft_ shot | Me <b>bold</b> pic | *star*; a \| b | see [Hawaii](x) |
`
	doc, err := table.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []table.Row{{
		Index:         1,
		FileToken:     "_draft_ shot",
		SuggestedName: "Me <b>bold</b> pic",
		Tags:          []string{"*star*", "a | b"},
		Area:          "see [Hawaii](x)",
	}}
	if !reflect.DeepEqual(doc.Rows, want) {
		t.Fatalf("rows mismatch\n got: %#v\nwant: %#v", doc.Rows, want)
	}
}

func TestParseStopsAtLinesWithoutLeadingPipe(t *testing.T) {
	src := `| Current File Name | Suggested File Name |
|---|---|
| 1 | Red Rose |
  | 2 | Oak |
Notes: done
`
	doc, err := table.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %#v", len(doc.Rows), doc.Rows)
	}
	if doc.Rows[1].Index != 2 || doc.Rows[1].FileToken != "2" || doc.Rows[1].SuggestedName != "Oak" {
		t.Fatalf("unexpected second row %+v", doc.Rows[1])
	}
}

func TestRowHasMetadata(t *testing.T) {
	if (table.Row{}).HasMetadata() {
		t.Fatal("empty row should have no metadata")
	}
	if !(table.Row{Tags: []string{"x"}}).HasMetadata() {
		t.Fatal("row with tags should have metadata")
	}
}
