package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/courtpipe/courtpipe/internal/model"
)

func TestRenderReport(t *testing.T) {
	now := time.Now().UTC()
	report := &model.BatchReport{
		BatchID:    "batch-42",
		StartedAt:  now,
		FinishedAt: now.Add(3 * time.Second),
		Documents:  5,
		Errors:     1,
		Categories: map[model.DocumentCategory]model.CategoryStats{
			model.CategoryFullOpinion: {Documents: 3, MeanScore: 0.83, MinScore: 0.67, MaxScore: 1.0},
			model.CategoryMetadataDoc: {Documents: 2, MeanScore: 1.0, MinScore: 1.0, MaxScore: 1.0},
		},
		Stages: map[model.Stage]model.StageCounts{
			model.StageCourt:     {Applied: 5},
			model.StageCitations: {Applied: 4, Failed: 1},
		},
		Failures: []model.StageFailure{
			{SourceID: "doc-9", Stage: model.StageCitations, Reason: "scan error"},
		},
	}

	out := renderReport(report)

	assert.Contains(t, out, "batch-42")
	assert.Contains(t, out, "5 documents, 1 errors")
	assert.Contains(t, out, "full_opinion")
	assert.Contains(t, out, "metadata_document")
	assert.Contains(t, out, "0.83")
	assert.Contains(t, out, "citations")
	assert.Contains(t, out, "doc-9")
	assert.Contains(t, out, "scan error")
}
