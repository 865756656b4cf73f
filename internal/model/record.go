package model

import "time"

// DocumentStructure is the segmentation of opinion/order prose.
type DocumentStructure struct {
	Sections   []string `json:"sections,omitempty"`
	Paragraphs int      `json:"paragraphs"`
	Footnotes  int      `json:"footnotes"`
}

// QualityScore is the type-aware completeness score for one document.
// Applicable is a function of the document category, never a constant:
// a docket is not penalized for enhancements that make no sense for it.
type QualityScore struct {
	Category   DocumentCategory `json:"category"`
	Applicable []Stage          `json:"applicable"`
	Achieved   []Stage          `json:"achieved"`
	Score      float64          `json:"score"`
}

// EnhancedRecord is the persisted unit. DocumentHash is the dedup key,
// derived from content identity plus stable source fields, never from a
// source-supplied numeric id.
type EnhancedRecord struct {
	DocumentHash string            `json:"document_hash"`
	Category     DocumentCategory  `json:"category"`
	Court        ResolvedCourt     `json:"court"`
	Judge        ResolvedJudge     `json:"judge"`
	Citations    []Citation        `json:"citations,omitempty"`
	Structure    DocumentStructure `json:"structure"`
	Keywords     []string          `json:"keywords,omitempty"`
	Quality      QualityScore      `json:"quality"`
	Outcomes     []StageOutcome    `json:"outcomes"`
	SourceID     string            `json:"source_id"`
	Source       string            `json:"source"`
	CaseNumber   string            `json:"case_number,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Merge folds a newer record into r, overwriting only fields whose new value
// carries information: an unresolved court never clobbers a resolved one, an
// empty judge never clobbers a resolved one, and empty collections never
// erase populated ones. Returns the merged record; r is not modified.
func (r EnhancedRecord) Merge(newer EnhancedRecord) EnhancedRecord {
	merged := r

	if newer.Category != CategoryUnknown && newer.Category != "" {
		merged.Category = newer.Category
	}
	if newer.Court.Resolved() {
		if !merged.Court.Resolved() || tierRank(newer.Court.Tier) >= tierRank(merged.Court.Tier) {
			merged.Court = newer.Court
		}
	}
	if newer.Judge.Resolved() {
		if !merged.Judge.Resolved() || judgeRank(newer.Judge) >= judgeRank(merged.Judge) {
			merged.Judge = newer.Judge
		}
	}
	if len(newer.Citations) > 0 {
		merged.Citations = newer.Citations
	}
	if newer.Structure.Paragraphs > 0 || len(newer.Structure.Sections) > 0 {
		merged.Structure = newer.Structure
	}
	if len(newer.Keywords) > 0 {
		merged.Keywords = newer.Keywords
	}
	if len(newer.Quality.Applicable) > 0 {
		merged.Quality = newer.Quality
	}
	if len(newer.Outcomes) > 0 {
		merged.Outcomes = newer.Outcomes
	}
	if newer.CaseNumber != "" {
		merged.CaseNumber = newer.CaseNumber
	}
	if newer.SourceID != "" {
		merged.SourceID = newer.SourceID
	}
	if newer.Source != "" {
		merged.Source = newer.Source
	}
	merged.UpdatedAt = newer.UpdatedAt

	return merged
}

func tierRank(t CourtTier) int {
	switch t {
	case CourtTierExact:
		return 2
	case CourtTierPattern:
		return 1
	default:
		return 0
	}
}

func judgeRank(j ResolvedJudge) int {
	switch j.Source {
	case JudgeSourceMetadata:
		return 3
	case JudgeSourceContent:
		return 2
	case JudgeSourceInitials:
		return 1
	default:
		return 0
	}
}
