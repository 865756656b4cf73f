package model

// Stage identifies one enhancement stage of the pipeline.
type Stage string

const (
	StageCourt     Stage = "court"
	StageJudge     Stage = "judge"
	StageCitations Stage = "citations"
	StageReporters Stage = "reporters"
	StageStructure Stage = "structure"
	StageKeywords  Stage = "keywords"

	// StageStorage is not an enhancement stage; it names the persistence
	// step in verification failures.
	StageStorage Stage = "storage"
)

// AllStages lists every enhancement stage in pipeline order.
func AllStages() []Stage {
	return []Stage{
		StageCourt,
		StageJudge,
		StageCitations,
		StageReporters,
		StageStructure,
		StageKeywords,
	}
}

// StageStatus is the three-way result of an enhancement stage. Skipped and
// failed are deliberately separate: the quality scorer and the verification
// report treat them differently.
type StageStatus string

const (
	StageApplied StageStatus = "applied"
	StageSkipped StageStatus = "skipped"
	StageFailed  StageStatus = "failed"
)

// StageOutcome records how one stage concluded for one document.
//
// Inapplicable distinguishes the two kinds of skip: a skip because the stage
// is meaningless for the document's category (excluded from the quality
// denominator) versus a skip because applicable data was missing (counts
// against the denominator).
type StageOutcome struct {
	Stage        Stage       `json:"stage"`
	Status       StageStatus `json:"status"`
	Reason       string      `json:"reason,omitempty"`
	Inapplicable bool        `json:"inapplicable,omitempty"`
}

// Applied marks a stage as having run and produced a result. A stage that
// ran and legitimately found nothing (e.g. zero citations in an opinion)
// is still applied.
func Applied(stage Stage) StageOutcome {
	return StageOutcome{Stage: stage, Status: StageApplied}
}

// SkippedMissingData marks a stage that was applicable but had nothing to
// work with. It counts against the quality denominator.
func SkippedMissingData(stage Stage, reason string) StageOutcome {
	return StageOutcome{Stage: stage, Status: StageSkipped, Reason: reason}
}

// SkippedInapplicable marks a stage that is meaningless for the document's
// category. It is excluded from the quality denominator.
func SkippedInapplicable(stage Stage) StageOutcome {
	return StageOutcome{
		Stage:        stage,
		Status:       StageSkipped,
		Reason:       "not applicable to category",
		Inapplicable: true,
	}
}

// Failed marks a stage that attempted work and could not produce a result.
func Failed(stage Stage, reason string) StageOutcome {
	return StageOutcome{Stage: stage, Status: StageFailed, Reason: reason}
}
