package pipeline

import (
	"sort"
	"strings"

	"github.com/courtpipe/courtpipe/internal/model"
)

// legalTerms are the substantive terms surfaced as keywords when present.
var legalTerms = []string{
	"summary judgment",
	"motion to dismiss",
	"motion to compel",
	"preliminary injunction",
	"temporary restraining order",
	"class certification",
	"claim construction",
	"habeas corpus",
	"qualified immunity",
	"attorney fees",
	"sanctions",
	"damages",
	"infringement",
	"negligence",
	"breach of contract",
	"due process",
	"jurisdiction",
	"venue",
	"remand",
	"arbitration",
}

// proceduralMarkers flag the procedural posture of a filing.
var proceduralMarkers = []string{
	"granted",
	"denied",
	"granted in part",
	"dismissed",
	"dismissed with prejudice",
	"dismissed without prejudice",
	"affirmed",
	"reversed",
	"vacated",
	"remanded",
	"stayed",
	"settled",
	"stipulated",
}

// ExtractKeywords pulls legal terms and procedural-status markers from
// whatever text the document carries: content plus entry descriptions.
// Longer phrases win over their substrings ("dismissed with prejudice"
// suppresses "dismissed").
func ExtractKeywords(doc model.RawDocument) []string {
	var sb strings.Builder
	sb.WriteString(doc.Text())
	for _, e := range doc.Entries {
		sb.WriteByte('\n')
		sb.WriteString(e.Description)
	}
	text := strings.ToLower(sb.String())
	if strings.TrimSpace(text) == "" {
		return nil
	}

	found := make(map[string]bool)
	for _, term := range legalTerms {
		if strings.Contains(text, term) {
			found[term] = true
		}
	}
	for _, marker := range proceduralMarkers {
		if strings.Contains(text, marker) {
			found[marker] = true
		}
	}

	// Suppress terms that are substrings of a longer match.
	var keywords []string
	for term := range found {
		shadowed := false
		for other := range found {
			if other != term && strings.Contains(other, term) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			keywords = append(keywords, term)
		}
	}

	sort.Strings(keywords)
	return keywords
}
