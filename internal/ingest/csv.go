package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/model"
)

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter rune   // default ','
	Source    string // source label stamped on documents missing one
}

// FromCSV reads a CSV delivery into raw documents using the same
// header-driven column mapping as the spreadsheet reader.
func FromCSV(path string, opts CSVOptions) ([]model.RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()

	return decodeCSV(f, opts)
}

func decodeCSV(r io.Reader, opts CSVOptions) ([]model.RawDocument, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // deliveries have ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}

	var docs []model.RawDocument
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		line++

		doc, ok := documentFromRow(header, record, opts.Source)
		if !ok {
			zap.L().Warn("ingest: skipping empty row", zap.Int("row", line))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
