package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtpipe/courtpipe/internal/model"
)

func TestApplicableStages_PerCategory(t *testing.T) {
	assert.Len(t, ApplicableStages(model.CategoryFullOpinion, false), 6)
	assert.Len(t, ApplicableStages(model.CategoryOrder, false), 6)
	assert.Len(t, ApplicableStages(model.CategoryUnknown, false), 5)
	assert.NotContains(t, ApplicableStages(model.CategoryUnknown, false), model.StageStructure)

	// Metadata documents: 4 stages normally, 5 once citations validated.
	base := ApplicableStages(model.CategoryMetadataDoc, false)
	assert.Len(t, base, 4)
	assert.NotContains(t, base, model.StageReporters)

	widened := ApplicableStages(model.CategoryMetadataDoc, true)
	assert.Len(t, widened, 5)
	assert.Contains(t, widened, model.StageReporters)
}

func TestComputeQuality_AllApplied(t *testing.T) {
	applicable := ApplicableStages(model.CategoryFullOpinion, true)
	var outcomes []model.StageOutcome
	for _, s := range applicable {
		outcomes = append(outcomes, model.Applied(s))
	}

	q := ComputeQuality(model.CategoryFullOpinion, applicable, outcomes)
	assert.InDelta(t, 1.0, q.Score, 1e-9)
	assert.Len(t, q.Achieved, 6)
}

// A data-skip on an applicable stage counts against the score; an
// inapplicable skip never does because the stage is absent from the
// applicable set.
func TestComputeQuality_SkipSemantics(t *testing.T) {
	applicable := ApplicableStages(model.CategoryMetadataDoc, false)
	outcomes := []model.StageOutcome{
		model.Applied(model.StageCourt),
		model.SkippedMissingData(model.StageJudge, "no judge identified"),
		model.Applied(model.StageCitations),
		model.SkippedInapplicable(model.StageStructure),
		model.SkippedInapplicable(model.StageReporters),
		model.Applied(model.StageKeywords),
	}

	q := ComputeQuality(model.CategoryMetadataDoc, applicable, outcomes)
	assert.InDelta(t, 0.75, q.Score, 1e-9)
	assert.Len(t, q.Applicable, 4)
	assert.Len(t, q.Achieved, 3)
}

func TestComputeQuality_FailedCountsAgainst(t *testing.T) {
	applicable := ApplicableStages(model.CategoryOrder, false)
	outcomes := []model.StageOutcome{
		model.Applied(model.StageCourt),
		model.Applied(model.StageJudge),
		model.Failed(model.StageCitations, "scan error"),
		model.SkippedMissingData(model.StageReporters, "no citations"),
		model.Applied(model.StageStructure),
		model.Applied(model.StageKeywords),
	}

	q := ComputeQuality(model.CategoryOrder, applicable, outcomes)
	assert.InDelta(t, 4.0/6.0, q.Score, 1e-9)
}

func TestComputeQuality_EmptyApplicable(t *testing.T) {
	q := ComputeQuality(model.CategoryUnknown, nil, nil)
	assert.Zero(t, q.Score)
}
