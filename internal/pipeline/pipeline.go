package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/courtpipe/courtpipe/internal/config"
	"github.com/courtpipe/courtpipe/internal/model"
	"github.com/courtpipe/courtpipe/internal/refdata"
	"github.com/courtpipe/courtpipe/internal/resilience"
	"github.com/courtpipe/courtpipe/internal/store"
)

// Pipeline drives the enhancement stages per document and assembles the
// batch verification report.
type Pipeline struct {
	cfg     *config.Config
	store   store.Store
	tables  *refdata.Tables
	limiter *rate.Limiter
}

// New creates a Pipeline with all dependencies. The rate limiter bounds
// storage writes across batch workers.
func New(cfg *config.Config, st store.Store, tables *refdata.Tables) *Pipeline {
	wps := cfg.Batch.WritesPerSecond
	if wps <= 0 {
		wps = 50
	}
	burst := cfg.Batch.WriteBurst
	if burst <= 0 {
		burst = 10
	}
	return &Pipeline{
		cfg:     cfg,
		store:   st,
		tables:  tables,
		limiter: rate.NewLimiter(rate.Limit(wps), burst),
	}
}

// Enhance runs the full stage sequence for one document and returns the
// enhanced record together with every stage outcome. It never returns an
// error: per-stage problems land in the outcomes, and classification always
// yields a category.
func (p *Pipeline) Enhance(doc model.RawDocument) (*model.EnhancedRecord, []model.StageOutcome) {
	log := zap.L().With(zap.String("source_id", doc.SourceID), zap.String("source", doc.Source))

	category := Classify(doc, p.cfg.Classify)
	log.Debug("pipeline: classified", zap.String("category", string(category)))

	var outcomes []model.StageOutcome
	track := func(stage model.Stage, fn func() model.StageOutcome) {
		o := fn()
		o.Stage = stage
		if o.Status == model.StageFailed {
			log.Warn("pipeline: stage failed",
				zap.String("stage", string(stage)),
				zap.String("reason", o.Reason),
			)
		}
		outcomes = append(outcomes, o)
	}

	// Court resolution. Unresolved is a first-class answer: the stage is a
	// data-skip, not a failure, and no default court is substituted.
	var court model.ResolvedCourt
	track(model.StageCourt, func() model.StageOutcome {
		court = ResolveCourt(doc, &p.tables.Courts)
		if !court.Resolved() {
			return model.SkippedMissingData(model.StageCourt, "court unresolved")
		}
		return model.Applied(model.StageCourt)
	})

	var judge model.ResolvedJudge
	track(model.StageJudge, func() model.StageOutcome {
		j, ok := ResolveJudge(doc, court, &p.tables.Judges)
		if !ok {
			return model.SkippedMissingData(model.StageJudge, "no judge identified")
		}
		judge = j
		return model.Applied(model.StageJudge)
	})

	var citations []model.Citation
	track(model.StageCitations, func() model.StageOutcome {
		if !doc.HasContent() && len(doc.Entries) == 0 {
			return model.SkippedMissingData(model.StageCitations, "no extractable text")
		}
		// Ran and found nothing is still applied; the stage was attempted.
		citations = ValidateCitations(ExtractCitations(doc), &p.tables.Reporters)
		return model.Applied(model.StageCitations)
	})

	validCitations := ValidCount(citations)
	track(model.StageReporters, func() model.StageOutcome {
		if !reporterApplicable(category, validCitations) {
			return model.SkippedInapplicable(model.StageReporters)
		}
		if validCitations == 0 {
			return model.SkippedMissingData(model.StageReporters, "no citations")
		}
		var full, partial int
		citations, full, partial = NormalizeReporters(citations, &p.tables.Reporters)
		log.Debug("pipeline: reporters normalized",
			zap.Int("full", full),
			zap.Int("partial", partial),
		)
		return model.Applied(model.StageReporters)
	})

	var structure model.DocumentStructure
	track(model.StageStructure, func() model.StageOutcome {
		if category != model.CategoryFullOpinion && category != model.CategoryOrder {
			return model.SkippedInapplicable(model.StageStructure)
		}
		if !doc.HasContent() {
			return model.SkippedMissingData(model.StageStructure, "no content")
		}
		structure = AnalyzeStructure(doc.Text())
		return model.Applied(model.StageStructure)
	})

	var keywords []string
	track(model.StageKeywords, func() model.StageOutcome {
		keywords = ExtractKeywords(doc)
		if keywords == nil && !doc.HasContent() && len(doc.Entries) == 0 {
			return model.SkippedMissingData(model.StageKeywords, "no content")
		}
		return model.Applied(model.StageKeywords)
	})

	applicable := ApplicableStages(category, validCitations > 0)
	quality := ComputeQuality(category, applicable, outcomes)

	caseNumber := NormalizeCaseNumber(doc.Meta.CaseNumber)
	now := time.Now().UTC()

	record := &model.EnhancedRecord{
		DocumentHash: DocumentHash(doc, court, doc.Meta.CaseNumber),
		Category:     category,
		Court:        court,
		Judge:        judge,
		Citations:    citations,
		Structure:    structure,
		Keywords:     keywords,
		Quality:      quality,
		Outcomes:     outcomes,
		SourceID:     doc.SourceID,
		Source:       doc.Source,
		CaseNumber:   caseNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	log.Info("pipeline: document enhanced",
		zap.String("category", string(category)),
		zap.String("court", court.Code),
		zap.Float64("score", quality.Score),
		zap.Int("citations", len(citations)),
	)

	return record, outcomes
}

// reporterApplicable mirrors the applicable-enhancement table: reporter
// normalization applies to opinions, orders, and unknown documents always,
// and to metadata documents only once entry-text citations validated.
func reporterApplicable(category model.DocumentCategory, validCitations int) bool {
	if category == model.CategoryMetadataDoc {
		return validCitations > 0
	}
	return true
}

// Persist upserts the record, retrying conflicts once with the
// merge-on-conflict policy before reporting failure.
func (p *Pipeline) Persist(ctx context.Context, record *model.EnhancedRecord) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "pipeline: rate limit wait")
	}

	retries := p.cfg.Batch.ConflictRetries
	if retries < 0 {
		retries = 0
	}
	return resilience.Do(ctx, resilience.RetryConfig{
		MaxAttempts:    1 + retries,
		InitialBackoff: 50 * time.Millisecond,
		ShouldRetry:    store.IsConflict,
	}, func(ctx context.Context) error {
		_, err := p.store.UpsertRecord(ctx, record)
		return err
	})
}

// RunBatch processes documents in parallel up to the configured worker
// count. Failures are isolated per document: a batch of N documents with K
// failures still completes verification over all N. Cancellation stops
// dispatching further documents; in-flight documents finish.
func (p *Pipeline) RunBatch(ctx context.Context, docs []model.RawDocument) (*model.BatchReport, error) {
	workers := p.cfg.Batch.Workers
	if workers <= 0 {
		workers = 1
	}

	rb := newReportBuilder(uuid.New().String())

	zap.L().Info("pipeline: starting batch",
		zap.String("batch_id", rb.report.BatchID),
		zap.Int("documents", len(docs)),
		zap.Int("workers", workers),
	)

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, doc := range docs {
		if ctx.Err() != nil {
			break // stop dispatching; workers already running finish
		}
		g.Go(func() error {
			record, outcomes := p.Enhance(doc)
			if err := p.Persist(ctx, record); err != nil {
				zap.L().Error("pipeline: persist failed",
					zap.String("source_id", doc.SourceID),
					zap.Error(err),
				)
				rb.addError(doc.SourceID, record.DocumentHash, err)
				return nil // individual failure never aborts the batch
			}
			rb.add(doc.SourceID, record, outcomes)
			return nil
		})
	}

	_ = g.Wait()

	report := rb.finalize()
	if err := p.store.SaveReport(ctx, report); err != nil {
		return report, eris.Wrap(err, "pipeline: save batch report")
	}

	zap.L().Info("pipeline: batch complete",
		zap.String("batch_id", report.BatchID),
		zap.Int("documents", report.Documents),
		zap.Int("errors", report.Errors),
	)
	return report, nil
}
