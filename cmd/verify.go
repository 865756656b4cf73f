package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/courtpipe/courtpipe/internal/model"
)

var verifyBatchID string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Show the verification report for a batch",
	Long:  "Renders per-category quality statistics, per-stage outcome counts, and the failure list for a batch. Without --batch the most recent batch is shown.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var report *model.BatchReport
		if verifyBatchID != "" {
			report, err = env.Store.GetReport(ctx, verifyBatchID)
			if err != nil {
				return err
			}
			if report == nil {
				return eris.Errorf("no report for batch %s", verifyBatchID)
			}
		} else {
			reports, err := env.Store.ListReports(ctx, 1)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				return eris.New("no batch reports found")
			}
			report = &reports[0]
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyBatchID, "batch", "", "batch id (default: most recent)")
	rootCmd.AddCommand(verifyCmd)
}

// renderReport formats a batch report as category, stage, and failure tables.
// Category statistics stay separate per category; a mean across categories
// would be meaningless.
func renderReport(report *model.BatchReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Batch %s: %d documents, %d errors (%s)\n\n",
		report.BatchID, report.Documents, report.Errors,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
	)

	var catRows [][]string
	for _, category := range model.AllCategories() {
		stats, ok := report.Categories[category]
		if !ok {
			continue
		}
		catRows = append(catRows, []string{
			string(category),
			strconv.Itoa(stats.Documents),
			fmt.Sprintf("%.2f", stats.MeanScore),
			fmt.Sprintf("%.2f", stats.MinScore),
			fmt.Sprintf("%.2f", stats.MaxScore),
		})
	}
	sb.WriteString(renderTable(
		[]string{"Category", "Docs", "Mean", "Min", "Max"},
		catRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	sb.WriteByte('\n')

	var stageRows [][]string
	for _, stage := range model.AllStages() {
		counts, ok := report.Stages[stage]
		if !ok {
			continue
		}
		stageRows = append(stageRows, []string{
			string(stage),
			strconv.Itoa(counts.Applied),
			strconv.Itoa(counts.Skipped),
			strconv.Itoa(counts.Failed),
		})
	}
	sb.WriteString(renderTable(
		[]string{"Stage", "Applied", "Skipped", "Failed"},
		stageRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))

	if len(report.Failures) > 0 {
		sb.WriteByte('\n')
		var failRows [][]string
		for _, f := range report.Failures {
			failRows = append(failRows, []string{f.SourceID, string(f.Stage), f.Reason})
		}
		sb.WriteString(renderTable(
			[]string{"Source", "Stage", "Reason"},
			failRows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
	}

	return sb.String()
}
