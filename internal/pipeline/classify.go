package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/config"
	"github.com/courtpipe/courtpipe/internal/model"
)

// Classify assigns a document category. Decision order, first match wins:
// substantial prose → full_opinion; docket-type case metadata or structured
// entries with near-empty content → metadata_document; order-type filing
// with moderate content → order; otherwise unknown. Classification never
// fails: unknown is the fallback, not an error.
func Classify(doc model.RawDocument, cfg config.ClassifyConfig) model.DocumentCategory {
	contentLen := len(strings.TrimSpace(doc.Text()))

	if contentLen > cfg.OpinionMinChars {
		return model.CategoryFullOpinion
	}

	caseType := strings.ToLower(strings.TrimSpace(doc.Meta.CaseType))

	if matchesCaseType(caseType, cfg.DocketCaseTypes) {
		return model.CategoryMetadataDoc
	}
	if len(doc.Entries) > 0 && contentLen < cfg.OrderMinChars {
		return model.CategoryMetadataDoc
	}

	if matchesCaseType(caseType, cfg.OrderCaseTypes) &&
		contentLen >= cfg.OrderMinChars && contentLen <= cfg.OrderMaxChars {
		return model.CategoryOrder
	}

	zap.L().Debug("classify: no category matched",
		zap.String("source_id", doc.SourceID),
		zap.Int("content_len", contentLen),
		zap.String("case_type", caseType),
	)
	return model.CategoryUnknown
}

func matchesCaseType(caseType string, indicators []string) bool {
	if caseType == "" {
		return false
	}
	for _, ind := range indicators {
		if caseType == strings.ToLower(ind) {
			return true
		}
	}
	return false
}
