package model

// CourtTier grades how a court code was resolved so downstream consumers
// can discount pattern-matched results.
type CourtTier string

const (
	CourtTierExact      CourtTier = "exact"
	CourtTierPattern    CourtTier = "pattern-matched"
	CourtTierUnresolved CourtTier = "unresolved"
)

// ResolvedCourt is the outcome of court resolution. Unresolved is a
// first-class value: it is never replaced by a default court.
type ResolvedCourt struct {
	Code string    `json:"code,omitempty"`
	Tier CourtTier `json:"tier"`
}

// UnresolvedCourt is the terminal no-answer value for court resolution.
func UnresolvedCourt() ResolvedCourt {
	return ResolvedCourt{Tier: CourtTierUnresolved}
}

// Resolved reports whether a canonical court code was found.
func (c ResolvedCourt) Resolved() bool {
	return c.Tier != CourtTierUnresolved && c.Code != ""
}

// JudgeSource identifies which input produced a resolved judge.
type JudgeSource string

const (
	JudgeSourceMetadata   JudgeSource = "metadata"
	JudgeSourceContent    JudgeSource = "content"
	JudgeSourceInitials   JudgeSource = "initials-map"
	JudgeSourceExternalID JudgeSource = "external-id-only"
)

// ResolvedJudge is the outcome of judge resolution. A judge known only by an
// external identifier (profile URL with no name) is still a resolution:
// partial information is kept, not discarded.
type ResolvedJudge struct {
	Name           string      `json:"name,omitempty"`
	Source         JudgeSource `json:"source"`
	ExternalID     string      `json:"external_id,omitempty"`
	Court          string      `json:"court,omitempty"`
	CrossValidated bool        `json:"cross_validated"`
	LowConfidence  bool        `json:"low_confidence,omitempty"`
}

// Resolved reports whether any judge identity (name or external id) was found.
func (j ResolvedJudge) Resolved() bool {
	return j.Name != "" || j.ExternalID != ""
}
