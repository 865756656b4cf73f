package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/courtpipe/courtpipe/internal/model"
)

// initialsSuffixLower matches lowercase trailing judge initials on an
// already-lowercased case number.
var initialsSuffixLower = regexp.MustCompile(`-[a-z]{2,4}(-[a-z]{2,4})?$`)

// DocumentHash derives the dedup key from content identity: canonicalized
// content (or, for content-free dockets, the structured-entries payload)
// combined with the resolved court and a normalized case number. It is a
// pure function of content identity, never of a source-supplied numeric
// id, so two sources reusing the same id cannot collide and reprocessing
// the same document cannot create a second row.
func DocumentHash(doc model.RawDocument, court model.ResolvedCourt, caseNumber string) string {
	h := sha256.New()

	if doc.HasContent() {
		h.Write([]byte(canonicalText(doc.Text())))
	} else {
		for _, e := range doc.Entries {
			if e.Date != nil {
				h.Write([]byte(e.Date.UTC().Format("2006-01-02")))
			}
			h.Write([]byte{0})
			h.Write([]byte(canonicalText(e.Description)))
			h.Write([]byte{'\n'})
		}
	}

	h.Write([]byte{0})
	h.Write([]byte(court.Code))
	h.Write([]byte{0})
	h.Write([]byte(NormalizeCaseNumber(caseNumber)))

	return hex.EncodeToString(h.Sum(nil))
}

// canonicalText applies NFKC normalization, lowercases, and collapses
// whitespace so that OCR and encoding variants of the same document hash
// identically.
func canonicalText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeCaseNumber strips judge-initials suffixes, spaces, and case so
// that "2:21-CV-00463-RG" and "2:21-cv-00463" key the same case.
func NormalizeCaseNumber(cn string) string {
	cn = strings.ToLower(strings.TrimSpace(cn))
	cn = strings.ReplaceAll(cn, " ", "")
	// Trailing judge initials are presentation, not identity.
	cn = initialsSuffixLower.ReplaceAllString(cn, "")
	return cn
}
