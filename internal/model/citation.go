package model

import "strconv"

// NormStatus describes the result of reporter normalization for one citation.
type NormStatus string

const (
	// NormFull means the reporter matched the canonicalization table.
	NormFull NormStatus = "full"
	// NormPartial means the reporter is well-formed but unknown to the
	// table; the citation passes through unchanged. Partial is not a full
	// normalization success.
	NormPartial NormStatus = "partial"
)

// Citation is one volume-reporter-page span found in a document, together
// with its validation and normalization state.
type Citation struct {
	Raw        string     `json:"raw"`
	Volume     int        `json:"volume"`
	Reporter   string     `json:"reporter"`
	Page       int        `json:"page"`
	Valid      bool       `json:"valid"`
	Invalid    string     `json:"invalid_reason,omitempty"`
	Normalized string     `json:"normalized,omitempty"`
	NormStatus NormStatus `json:"norm_status,omitempty"`
}

// Span returns the citation in canonical "vol reporter page" form, used for
// deduplication across content and docket-entry sources.
func (c Citation) Span() string {
	if c.Normalized != "" {
		return spanKey(c.Volume, c.Normalized, c.Page)
	}
	return spanKey(c.Volume, c.Reporter, c.Page)
}

func spanKey(vol int, reporter string, page int) string {
	return strconv.Itoa(vol) + " " + reporter + " " + strconv.Itoa(page)
}
