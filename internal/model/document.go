package model

import (
	"strings"
	"time"
)

// DocumentCategory classifies the overall shape of a raw document.
type DocumentCategory string

const (
	CategoryFullOpinion DocumentCategory = "full_opinion"
	CategoryMetadataDoc DocumentCategory = "metadata_document"
	CategoryOrder       DocumentCategory = "order"
	CategoryUnknown     DocumentCategory = "unknown"
)

// AllCategories lists every document category in report order.
func AllCategories() []DocumentCategory {
	return []DocumentCategory{
		CategoryFullOpinion,
		CategoryMetadataDoc,
		CategoryOrder,
		CategoryUnknown,
	}
}

// DocketEntry is a single structured line item from a case docket.
type DocketEntry struct {
	Date        *time.Time `json:"date,omitempty"`
	Description string     `json:"description"`
	Attachments []string   `json:"attachments,omitempty"`
}

// DocumentMeta holds the documented metadata keys supplied by ingestion.
// Unknown keys are preserved verbatim in Extra and never coerced.
type DocumentMeta struct {
	CourtHint        string         `json:"court_hint,omitempty"`
	AssignedJudge    string         `json:"assigned_judge,omitempty"`
	AssignedJudgeURL string         `json:"assigned_judge_url,omitempty"`
	CaseType         string         `json:"case_type,omitempty"`
	CaseNumber       string         `json:"case_number,omitempty"`
	SourceURL        string         `json:"source_url,omitempty"`
	FilingDate       *time.Time     `json:"filing_date,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`
}

// RawDocument is the pipeline input: one document as delivered by ingestion.
// SourceID is opaque and not unique across source systems. Content may be
// nil (dockets typically carry only structured entries). Immutable once
// handed to the pipeline.
type RawDocument struct {
	SourceID string        `json:"source_id"`
	Source   string        `json:"source"`
	Content  *string       `json:"content,omitempty"`
	Entries  []DocketEntry `json:"structured_entries,omitempty"`
	Meta     DocumentMeta  `json:"metadata"`
}

// Text returns the document content, or "" when content is absent.
func (d RawDocument) Text() string {
	if d.Content == nil {
		return ""
	}
	return *d.Content
}

// HasContent reports whether the document carries non-whitespace prose.
func (d RawDocument) HasContent() bool {
	return strings.TrimSpace(d.Text()) != ""
}
