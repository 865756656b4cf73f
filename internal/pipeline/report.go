package pipeline

import (
	"sync"
	"time"

	"github.com/courtpipe/courtpipe/internal/model"
)

// reportBuilder accumulates verification data across batch workers.
type reportBuilder struct {
	mu     sync.Mutex
	report model.BatchReport
	scores map[model.DocumentCategory][]float64
}

func newReportBuilder(batchID string) *reportBuilder {
	return &reportBuilder{
		report: model.BatchReport{
			BatchID:    batchID,
			StartedAt:  time.Now().UTC(),
			Categories: make(map[model.DocumentCategory]model.CategoryStats),
			Stages:     make(map[model.Stage]model.StageCounts),
		},
		scores: make(map[model.DocumentCategory][]float64),
	}
}

// add records one successfully persisted document.
func (rb *reportBuilder) add(sourceID string, record *model.EnhancedRecord, outcomes []model.StageOutcome) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.report.Documents++
	rb.scores[record.Category] = append(rb.scores[record.Category], record.Quality.Score)

	for _, o := range outcomes {
		counts := rb.report.Stages[o.Stage]
		switch o.Status {
		case model.StageApplied:
			counts.Applied++
		case model.StageSkipped:
			counts.Skipped++
		case model.StageFailed:
			counts.Failed++
			rb.report.Failures = append(rb.report.Failures, model.StageFailure{
				SourceID:     sourceID,
				DocumentHash: record.DocumentHash,
				Stage:        o.Stage,
				Reason:       o.Reason,
			})
		}
		rb.report.Stages[o.Stage] = counts
	}
}

// addError records a document whose storage write failed after retry.
func (rb *reportBuilder) addError(sourceID, documentHash string, err error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.report.Documents++
	rb.report.Errors++
	rb.report.Failures = append(rb.report.Failures, model.StageFailure{
		SourceID:     sourceID,
		DocumentHash: documentHash,
		Stage:        model.StageStorage,
		Reason:       err.Error(),
	})
}

// finalize computes per-category score stats. Categories are never averaged
// together: a batch of dockets and opinions reports each on its own terms.
func (rb *reportBuilder) finalize() *model.BatchReport {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for category, scores := range rb.scores {
		stats := model.CategoryStats{Documents: len(scores)}
		if len(scores) > 0 {
			min, max, sum := scores[0], scores[0], 0.0
			for _, s := range scores {
				sum += s
				if s < min {
					min = s
				}
				if s > max {
					max = s
				}
			}
			stats.MeanScore = sum / float64(len(scores))
			stats.MinScore = min
			stats.MaxScore = max
		}
		rb.report.Categories[category] = stats
	}

	rb.report.FinishedAt = time.Now().UTC()
	return &rb.report
}
