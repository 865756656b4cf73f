package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtpipe/courtpipe/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testRecord(hash string) model.EnhancedRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return model.EnhancedRecord{
		DocumentHash: hash,
		Category:     model.CategoryFullOpinion,
		Court:        model.ResolvedCourt{Code: "txed", Tier: model.CourtTierExact},
		Judge:        model.ResolvedJudge{Name: "Rodney Gilstrap", Source: model.JudgeSourceMetadata},
		Citations: []model.Citation{
			{Raw: "123 F.3d 456", Volume: 123, Reporter: "F.3d", Page: 456, Valid: true, Normalized: "F.3d", NormStatus: model.NormFull},
		},
		Structure: model.DocumentStructure{Sections: []string{"I. BACKGROUND"}, Paragraphs: 12, Footnotes: 2},
		Keywords:  []string{"summary judgment"},
		Quality: model.QualityScore{
			Category:   model.CategoryFullOpinion,
			Applicable: model.AllStages(),
			Achieved:   model.AllStages(),
			Score:      1.0,
		},
		Outcomes: []model.StageOutcome{
			model.Applied(model.StageCourt),
			model.Applied(model.StageJudge),
		},
		SourceID:   "src-1",
		Source:     "pacer",
		CaseNumber: "2:21cv00123",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSQLite_UpsertAndGetRecord(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := testRecord("hash-rt")
	created, err := st.UpsertRecord(ctx, &rec)
	require.NoError(t, err)
	assert.True(t, created)

	got, err := st.GetRecord(ctx, "hash-rt")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.CategoryFullOpinion, got.Category)
	assert.Equal(t, "txed", got.Court.Code)
	assert.Equal(t, model.CourtTierExact, got.Court.Tier)
	assert.Equal(t, "Rodney Gilstrap", got.Judge.Name)
	require.Len(t, got.Citations, 1)
	assert.Equal(t, "F.3d", got.Citations[0].Normalized)
	assert.Equal(t, 12, got.Structure.Paragraphs)
	assert.Equal(t, []string{"summary judgment"}, got.Keywords)
	assert.InDelta(t, 1.0, got.Quality.Score, 1e-9)
	assert.Len(t, got.Outcomes, 2)
	assert.Equal(t, "2:21cv00123", got.CaseNumber)
}

func TestSQLite_GetRecord_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetRecord(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// A second pass that resolves the court must not clobber the judge the first
// pass resolved, and vice versa.
func TestSQLite_UpsertMergesAcrossPasses(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first := testRecord("hash-merge")
	first.Court = model.UnresolvedCourt()
	created, err := st.UpsertRecord(ctx, &first)
	require.NoError(t, err)
	assert.True(t, created)

	second := testRecord("hash-merge")
	second.Judge = model.ResolvedJudge{}
	second.Court = model.ResolvedCourt{Code: "cand", Tier: model.CourtTierPattern}
	second.UpdatedAt = first.UpdatedAt.Add(time.Minute)
	created, err = st.UpsertRecord(ctx, &second)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := st.GetRecord(ctx, "hash-merge")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cand", got.Court.Code)
	assert.Equal(t, model.CourtTierPattern, got.Court.Tier)
	assert.Equal(t, "Rodney Gilstrap", got.Judge.Name)
	assert.Equal(t, model.JudgeSourceMetadata, got.Judge.Source)
}

func TestSQLite_UpsertIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := testRecord("hash-idem")
	_, err := st.UpsertRecord(ctx, &rec)
	require.NoError(t, err)

	again := testRecord("hash-idem")
	created, err := st.UpsertRecord(ctx, &again)
	require.NoError(t, err)
	assert.False(t, created)

	records, err := st.ListRecords(ctx, RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSQLite_ListRecordsFiltered(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	opinion := testRecord("hash-op")
	_, err := st.UpsertRecord(ctx, &opinion)
	require.NoError(t, err)

	docket := testRecord("hash-dk")
	docket.Category = model.CategoryMetadataDoc
	docket.Court = model.ResolvedCourt{Code: "nysd", Tier: model.CourtTierExact}
	_, err = st.UpsertRecord(ctx, &docket)
	require.NoError(t, err)

	byCategory, err := st.ListRecords(ctx, RecordFilter{Category: model.CategoryMetadataDoc})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "hash-dk", byCategory[0].DocumentHash)

	byCourt, err := st.ListRecords(ctx, RecordFilter{Court: "txed"})
	require.NoError(t, err)
	require.Len(t, byCourt, 1)
	assert.Equal(t, "hash-op", byCourt[0].DocumentHash)

	limited, err := st.ListRecords(ctx, RecordFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_Reports_SaveGetList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	report := &model.BatchReport{
		BatchID:    "batch-1",
		StartedAt:  now,
		FinishedAt: now.Add(time.Minute),
		Documents:  3,
		Categories: map[model.DocumentCategory]model.CategoryStats{
			model.CategoryFullOpinion: {Documents: 3, MeanScore: 0.9, MinScore: 0.8, MaxScore: 1.0},
		},
		Stages: map[model.Stage]model.StageCounts{
			model.StageCourt: {Applied: 3},
		},
	}
	require.NoError(t, st.SaveReport(ctx, report))

	got, err := st.GetReport(ctx, "batch-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Documents)
	assert.InDelta(t, 0.9, got.Categories[model.CategoryFullOpinion].MeanScore, 1e-9)
	assert.Equal(t, 3, got.Stages[model.StageCourt].Applied)

	missing, err := st.GetReport(ctx, "batch-nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	reports, err := st.ListReports(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
