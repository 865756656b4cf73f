package model

import "time"

// StageCounts tallies outcomes for one stage across a batch.
type StageCounts struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// StageFailure identifies one failed stage outcome for operator review.
// The verification report never drops failures from the count.
type StageFailure struct {
	SourceID     string `json:"source_id"`
	DocumentHash string `json:"document_hash,omitempty"`
	Stage        Stage  `json:"stage"`
	Reason       string `json:"reason"`
}

// CategoryStats aggregates quality scores within a single category so that
// dockets and opinions are never averaged together.
type CategoryStats struct {
	Documents int     `json:"documents"`
	MeanScore float64 `json:"mean_score"`
	MinScore  float64 `json:"min_score"`
	MaxScore  float64 `json:"max_score"`
}

// BatchReport is the verification summary produced after a batch run. It is
// the single serialization boundary for downstream logging and display.
type BatchReport struct {
	BatchID    string                             `json:"batch_id"`
	StartedAt  time.Time                          `json:"started_at"`
	FinishedAt time.Time                          `json:"finished_at"`
	Documents  int                                `json:"documents"`
	Errors     int                                `json:"errors"`
	Categories map[DocumentCategory]CategoryStats `json:"categories"`
	Stages     map[Stage]StageCounts              `json:"stages"`
	Failures   []StageFailure                     `json:"failures,omitempty"`
}
