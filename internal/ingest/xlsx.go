// Package ingest converts external delivery formats into raw documents the
// pipeline accepts.
package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/model"
)

// XLSXOptions configures the spreadsheet reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	Source     string // source label stamped on documents missing one
}

// FromXLSX reads a spreadsheet delivery into raw documents. The first row is
// a header; recognized column names map onto document fields and anything
// else is preserved in metadata extras. Rows without any usable field are
// skipped with a warning.
func FromXLSX(path string, opts XLSXOptions) ([]model.RawDocument, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := rowToStrings(sheet.Rows[0])
	var docs []model.RawDocument
	for i, row := range sheet.Rows[1:] {
		doc, ok := documentFromRow(header, rowToStrings(row), opts.Source)
		if !ok {
			zap.L().Warn("ingest: skipping empty row", zap.Int("row", i+2))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("ingest: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// documentFromRow maps header names onto document fields. The boolean is
// false when the row carried nothing usable.
func documentFromRow(header, cells []string, source string) (model.RawDocument, bool) {
	doc := model.RawDocument{Source: source}

	found := false
	for i, name := range header {
		if i >= len(cells) {
			break
		}
		value := strings.TrimSpace(cells[i])
		if value == "" {
			continue
		}
		found = true

		switch strings.ToLower(strings.TrimSpace(name)) {
		case "source_id", "id":
			doc.SourceID = value
		case "source":
			doc.Source = value
		case "content", "text":
			v := value
			doc.Content = &v
		case "court", "court_hint":
			doc.Meta.CourtHint = value
		case "assigned_judge", "judge":
			doc.Meta.AssignedJudge = value
		case "assigned_judge_url", "judge_url":
			doc.Meta.AssignedJudgeURL = value
		case "case_type":
			doc.Meta.CaseType = value
		case "case_number", "docket_number":
			doc.Meta.CaseNumber = value
		case "source_url", "url":
			doc.Meta.SourceURL = value
		case "entry", "docket_entry":
			doc.Entries = append(doc.Entries, model.DocketEntry{Description: value})
		default:
			if doc.Meta.Extra == nil {
				doc.Meta.Extra = make(map[string]any)
			}
			doc.Meta.Extra[name] = value
		}
	}

	return doc, found
}
