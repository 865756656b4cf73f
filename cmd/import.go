package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/ingest"
	"github.com/courtpipe/courtpipe/internal/model"
)

var (
	importXLSXPath string
	importCSVPath  string
	importOutPath  string
	importSheet    string
	importSource   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert a spreadsheet or CSV delivery to a JSONL document file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var docs []model.RawDocument
		var err error
		switch {
		case importXLSXPath != "":
			docs, err = ingest.FromXLSX(importXLSXPath, ingest.XLSXOptions{
				SheetName: importSheet,
				Source:    importSource,
			})
		case importCSVPath != "":
			docs, err = ingest.FromCSV(importCSVPath, ingest.CSVOptions{Source: importSource})
		default:
			return eris.New("either --xlsx or --csv is required")
		}
		if err != nil {
			return err
		}

		out, err := os.Create(importOutPath)
		if err != nil {
			return eris.Wrapf(err, "create %s", importOutPath)
		}
		defer out.Close()

		enc := json.NewEncoder(out)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return eris.Wrap(err, "encode document")
			}
		}

		zap.L().Info("import complete",
			zap.Int("documents", len(docs)),
			zap.String("out", importOutPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importXLSXPath, "xlsx", "", "path to XLSX file")
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file")
	importCmd.Flags().StringVar(&importOutPath, "out", "documents.jsonl", "output JSONL path")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "sheet name (default: first sheet)")
	importCmd.Flags().StringVar(&importSource, "source", "import", "source label for imported documents")
	rootCmd.AddCommand(importCmd)
}
