package pipeline

import (
	"github.com/courtpipe/courtpipe/internal/model"
)

// applicableByCategory is the static applicable-enhancement table. Reporter
// normalization is additionally applicable to metadata documents whenever
// validated citations exist (entry text can carry citations even though the
// docket itself has no prose).
var applicableByCategory = map[model.DocumentCategory][]model.Stage{
	model.CategoryFullOpinion: {
		model.StageCourt, model.StageJudge, model.StageCitations,
		model.StageReporters, model.StageStructure, model.StageKeywords,
	},
	model.CategoryMetadataDoc: {
		model.StageCourt, model.StageJudge, model.StageCitations,
		model.StageKeywords,
	},
	model.CategoryOrder: {
		model.StageCourt, model.StageJudge, model.StageCitations,
		model.StageReporters, model.StageStructure, model.StageKeywords,
	},
	model.CategoryUnknown: {
		model.StageCourt, model.StageJudge, model.StageCitations,
		model.StageReporters, model.StageKeywords,
	},
}

// ApplicableStages returns the enhancement stages meaningful for a category.
// hasValidCitations widens the metadata-document set with reporter
// normalization once citations from entry text validated.
func ApplicableStages(category model.DocumentCategory, hasValidCitations bool) []model.Stage {
	base := applicableByCategory[category]
	if base == nil {
		base = applicableByCategory[model.CategoryUnknown]
	}

	stages := make([]model.Stage, len(base))
	copy(stages, base)

	if category == model.CategoryMetadataDoc && hasValidCitations {
		stages = insertAfter(stages, model.StageCitations, model.StageReporters)
	}
	return stages
}

func insertAfter(stages []model.Stage, after, add model.Stage) []model.Stage {
	for _, s := range stages {
		if s == add {
			return stages
		}
	}
	out := make([]model.Stage, 0, len(stages)+1)
	for _, s := range stages {
		out = append(out, s)
		if s == after {
			out = append(out, add)
		}
	}
	return out
}

// ComputeQuality derives the type-aware quality score:
//
//	score = |applied stages| / |applicable stages|
//
// Stages skipped as inapplicable to the category are absent from the
// applicable set and so never penalize the document. Stages skipped for
// missing data where the enhancement was applicable, and failed stages,
// both count against the denominator. Attempted is not succeeded.
func ComputeQuality(category model.DocumentCategory, applicable []model.Stage, outcomes []model.StageOutcome) model.QualityScore {
	byStage := make(map[model.Stage]model.StageOutcome, len(outcomes))
	for _, o := range outcomes {
		byStage[o.Stage] = o
	}

	var achieved []model.Stage
	for _, stage := range applicable {
		if o, ok := byStage[stage]; ok && o.Status == model.StageApplied {
			achieved = append(achieved, stage)
		}
	}

	score := 0.0
	if len(applicable) > 0 {
		score = float64(len(achieved)) / float64(len(applicable))
	}

	return model.QualityScore{
		Category:   category,
		Applicable: applicable,
		Achieved:   achieved,
		Score:      score,
	}
}
