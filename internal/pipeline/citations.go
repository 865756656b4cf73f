package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/model"
	"github.com/courtpipe/courtpipe/internal/refdata"
)

// citationGrammar matches volume–reporter–page triples. The reporter is one
// leading token plus optional continuation tokens ("F. Supp. 3d", "S. Ct.").
var citationGrammar = regexp.MustCompile(
	`\b(\d{1,4})\s+([A-Z][A-Za-z0-9.']*(?:\s(?:[A-Z][A-Za-z0-9.']*|[23]d|4th))*)\s+(\d{1,5})\b`,
)

// ExtractCitations scans document content and, independently, every
// structured entry's description, then merges the results deduplicated by
// normalized span. The returned count always equals the number of
// structurally distinct spans found; nothing is fabricated from sources
// that were never scanned.
func ExtractCitations(doc model.RawDocument) []model.Citation {
	var citations []model.Citation
	seen := make(map[string]bool)

	scan := func(text string) {
		for _, m := range citationGrammar.FindAllStringSubmatch(text, -1) {
			c, ok := parseCitation(m)
			if !ok {
				continue
			}
			key := c.Span()
			if seen[key] {
				continue
			}
			seen[key] = true
			citations = append(citations, c)
		}
	}

	scan(doc.Text())
	for _, entry := range doc.Entries {
		scan(entry.Description)
	}

	if len(citations) > 0 {
		zap.L().Debug("citations: extracted",
			zap.String("source_id", doc.SourceID),
			zap.Int("count", len(citations)),
		)
	}
	return citations
}

func parseCitation(m []string) (model.Citation, bool) {
	vol, err := strconv.Atoi(m[1])
	if err != nil {
		return model.Citation{}, false
	}
	page, err := strconv.Atoi(m[3])
	if err != nil {
		return model.Citation{}, false
	}
	return model.Citation{
		Raw:      strings.TrimSpace(m[0]),
		Volume:   vol,
		Reporter: strings.Join(strings.Fields(m[2]), " "),
		Page:     page,
	}, true
}

// ValidateCitations checks structural well-formedness per citation: positive
// numeric volume and page, reporter token in the known pattern set. A
// malformed citation is flagged individually; it never discards the rest of
// the list.
func ValidateCitations(citations []model.Citation, reporters *refdata.ReporterTable) []model.Citation {
	out := make([]model.Citation, len(citations))
	for i, c := range citations {
		switch {
		case c.Volume <= 0:
			c.Valid = false
			c.Invalid = "volume must be positive"
		case c.Page <= 0:
			c.Valid = false
			c.Invalid = "page must be positive"
		case !reporters.WellFormed(c.Reporter):
			c.Valid = false
			c.Invalid = "unrecognized reporter form: " + c.Reporter
		default:
			c.Valid = true
		}
		out[i] = c
	}
	return out
}

// NormalizeReporters canonicalizes reporter abbreviations on validated
// citations. Reporters absent from the table pass through unchanged and are
// flagged partial; they are not counted as normalized. Returns the number
// of fully normalized and partial citations.
func NormalizeReporters(citations []model.Citation, reporters *refdata.ReporterTable) ([]model.Citation, int, int) {
	out := make([]model.Citation, len(citations))
	var full, partial int
	for i, c := range citations {
		if c.Valid {
			canon, ok := reporters.Normalize(c.Reporter)
			if ok {
				c.Normalized = canon
				c.NormStatus = model.NormFull
				full++
			} else {
				c.Normalized = c.Reporter
				c.NormStatus = model.NormPartial
				partial++
			}
		}
		out[i] = c
	}
	return out, full, partial
}

// ValidCount returns the number of citations that passed validation.
func ValidCount(citations []model.Citation) int {
	n := 0
	for _, c := range citations {
		if c.Valid {
			n++
		}
	}
	return n
}
