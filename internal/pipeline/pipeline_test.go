package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtpipe/courtpipe/internal/config"
	"github.com/courtpipe/courtpipe/internal/model"
	"github.com/courtpipe/courtpipe/internal/refdata"
	"github.com/courtpipe/courtpipe/internal/store"
)

func newTestPipeline(t *testing.T) (*Pipeline, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	cfg := &config.Config{
		Classify: testClassifyConfig(),
		Batch: config.BatchConfig{
			Workers:         2,
			WritesPerSecond: 500,
			WriteBurst:      50,
			ConflictRetries: 1,
		},
	}
	return New(cfg, st, refdata.Fixture()), st
}

func outcomeFor(t *testing.T, outcomes []model.StageOutcome, stage model.Stage) model.StageOutcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Stage == stage {
			return o
		}
	}
	t.Fatalf("no outcome for stage %s", stage)
	return model.StageOutcome{}
}

// A content-free docket with one entry carrying a citation: every applicable
// stage applies, structure is inapplicable, and the reporter stage joins the
// applicable set because the entry citation validated.
func TestEnhance_DocketWithEntryCitation(t *testing.T) {
	p, _ := newTestPipeline(t)

	doc := model.RawDocument{
		SourceID: "dk-1",
		Source:   "pacer",
		Entries: []model.DocketEntry{
			{Description: "Order granting motion, see 123 F.3d 456"},
		},
		Meta: model.DocumentMeta{
			CourtHint:  "txed",
			CaseType:   "docket",
			CaseNumber: "2:21-cv-00463-RG",
		},
	}

	record, outcomes := p.Enhance(doc)

	assert.Equal(t, model.CategoryMetadataDoc, record.Category)
	assert.Equal(t, "txed", record.Court.Code)
	assert.Equal(t, model.CourtTierExact, record.Court.Tier)
	assert.Equal(t, "Rodney Gilstrap", record.Judge.Name)
	assert.True(t, record.Judge.CrossValidated)

	require.Len(t, record.Citations, 1)
	assert.True(t, record.Citations[0].Valid)
	assert.Equal(t, "F.3d", record.Citations[0].Normalized)
	assert.Equal(t, model.NormFull, record.Citations[0].NormStatus)

	assert.Equal(t, model.StageApplied, outcomeFor(t, outcomes, model.StageReporters).Status)
	structureOutcome := outcomeFor(t, outcomes, model.StageStructure)
	assert.Equal(t, model.StageSkipped, structureOutcome.Status)
	assert.True(t, structureOutcome.Inapplicable)

	assert.Len(t, record.Quality.Applicable, 5)
	assert.InDelta(t, 1.0, record.Quality.Score, 1e-9)
	assert.Equal(t, "2:21-cv-00463", record.CaseNumber)
	assert.NotEmpty(t, record.DocumentHash)
}

// An opinion with no citations: the citation stage ran and found nothing,
// which is applied, while reporter normalization is a data-skip that counts
// against the score.
func TestEnhance_OpinionWithoutCitations(t *testing.T) {
	p, _ := newTestPipeline(t)

	content := "IN THE UNITED STATES DISTRICT COURT FOR THE EASTERN DISTRICT OF TEXAS\n\n" +
		"Before the Honorable Rodney Gilstrap.\n\n" +
		strings.Repeat("The motion for summary judgment presents a single dispute of material fact. ", 80)
	doc := model.RawDocument{
		SourceID: "op-1",
		Source:   "pacer",
		Content:  &content,
	}

	record, outcomes := p.Enhance(doc)

	assert.Equal(t, model.CategoryFullOpinion, record.Category)
	assert.Equal(t, "txed", record.Court.Code)
	assert.Equal(t, model.CourtTierPattern, record.Court.Tier)
	assert.Equal(t, "Rodney Gilstrap", record.Judge.Name)
	assert.Empty(t, record.Citations)

	assert.Equal(t, model.StageApplied, outcomeFor(t, outcomes, model.StageCitations).Status)

	reporters := outcomeFor(t, outcomes, model.StageReporters)
	assert.Equal(t, model.StageSkipped, reporters.Status)
	assert.False(t, reporters.Inapplicable)
	assert.Equal(t, "no citations", reporters.Reason)

	assert.Equal(t, model.StageApplied, outcomeFor(t, outcomes, model.StageStructure).Status)
	assert.Contains(t, record.Keywords, "summary judgment")

	assert.Len(t, record.Quality.Applicable, 6)
	assert.InDelta(t, 5.0/6.0, record.Quality.Score, 1e-9)
}

// An unidentifiable document: court and judge are data-skips, never failures,
// and no default court is substituted.
func TestEnhance_UnresolvedCourtIsSkipNotFailure(t *testing.T) {
	p, _ := newTestPipeline(t)

	doc := model.RawDocument{
		SourceID: "u-1",
		Source:   "upload",
		Content:  strPtr("Nothing here identifies a court."),
	}

	record, outcomes := p.Enhance(doc)

	assert.Equal(t, model.CategoryUnknown, record.Category)
	assert.False(t, record.Court.Resolved())
	assert.Equal(t, model.CourtTierUnresolved, record.Court.Tier)

	courtOutcome := outcomeFor(t, outcomes, model.StageCourt)
	assert.Equal(t, model.StageSkipped, courtOutcome.Status)
	assert.False(t, courtOutcome.Inapplicable)

	judgeOutcome := outcomeFor(t, outcomes, model.StageJudge)
	assert.Equal(t, model.StageSkipped, judgeOutcome.Status)

	for _, o := range outcomes {
		assert.NotEqual(t, model.StageFailed, o.Status)
	}
}

func TestPersist_Idempotent(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	doc := model.RawDocument{
		SourceID: "dup-1",
		Source:   "pacer",
		Content:  strPtr(strings.Repeat("An opinion reprocessed twice. ", 200)),
		Meta:     model.DocumentMeta{CourtHint: "txed", CaseNumber: "2:22-cv-00001"},
	}

	first, _ := p.Enhance(doc)
	require.NoError(t, p.Persist(ctx, first))

	second, _ := p.Enhance(doc)
	require.Equal(t, first.DocumentHash, second.DocumentHash)
	require.NoError(t, p.Persist(ctx, second))

	records, err := st.ListRecords(ctx, store.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunBatch_ReportsPerCategory(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	docs := []model.RawDocument{
		{
			SourceID: "dk-1",
			Source:   "pacer",
			Entries:  []model.DocketEntry{{Description: "Order granting motion, see 123 F.3d 456"}},
			Meta:     model.DocumentMeta{CourtHint: "txed", CaseType: "docket", CaseNumber: "2:21-cv-00463-RG"},
		},
		{
			SourceID: "op-1",
			Source:   "pacer",
			Content:  strPtr(strings.Repeat("A reasoned opinion granting summary judgment. ", 150)),
			Meta:     model.DocumentMeta{CourtHint: "nysd"},
		},
	}

	report, err := p.RunBatch(ctx, docs)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Documents)
	assert.Zero(t, report.Errors)
	assert.Equal(t, 1, report.Categories[model.CategoryMetadataDoc].Documents)
	assert.Equal(t, 1, report.Categories[model.CategoryFullOpinion].Documents)
	assert.Equal(t, 2, report.Stages[model.StageCourt].Applied)

	// The report is persisted under its batch id.
	saved, err := st.GetReport(ctx, report.BatchID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, report.Documents, saved.Documents)

	records, err := st.ListRecords(ctx, store.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRunBatch_Empty(t *testing.T) {
	p, _ := newTestPipeline(t)

	report, err := p.RunBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report.Documents)
}
