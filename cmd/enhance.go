package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/model"
)

var (
	enhanceInput  string
	enhanceLimit  int
	enhanceDryRun bool
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Enhance a batch of raw documents from a JSONL file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		docs, err := readDocuments(enhanceInput, enhanceLimit)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			zap.L().Info("no documents to process")
			return nil
		}

		if enhanceDryRun {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for _, doc := range docs {
				record, _ := env.Pipeline.Enhance(doc)
				if err := enc.Encode(record); err != nil {
					return eris.Wrap(err, "encode record")
				}
			}
			return nil
		}

		report, err := env.Pipeline.RunBatch(ctx, docs)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
		return nil
	},
}

func init() {
	enhanceCmd.Flags().StringVar(&enhanceInput, "input", "", "path to JSONL file of raw documents (required)")
	enhanceCmd.Flags().IntVar(&enhanceLimit, "limit", 0, "max number of documents to process (0 = all)")
	enhanceCmd.Flags().BoolVar(&enhanceDryRun, "dry-run", false, "enhance and print records without persisting")
	_ = enhanceCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(enhanceCmd)
}

// readDocuments parses one RawDocument per line. A malformed line is skipped
// with a warning rather than aborting the batch; ingestion feeds are messy.
func readDocuments(path string, limit int) ([]model.RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	return decodeDocuments(f, limit)
}

func decodeDocuments(r io.Reader, limit int) ([]model.RawDocument, error) {
	var docs []model.RawDocument

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var doc model.RawDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			zap.L().Warn("skipping malformed document line",
				zap.Int("line", line),
				zap.Error(err),
			)
			continue
		}
		if doc.SourceID == "" {
			doc.SourceID = "line-" + strconv.Itoa(line)
		}
		docs = append(docs, doc)

		if limit > 0 && len(docs) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read documents")
	}
	return docs, nil
}
