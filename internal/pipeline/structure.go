package pipeline

import (
	"regexp"
	"strings"

	"github.com/courtpipe/courtpipe/internal/model"
)

var (
	// headingLine matches roman/arabic numbered headings and all-caps lines.
	headingNumbered = regexp.MustCompile(`^\s*(?:[IVXLC]+|\d+)\.\s+\S`)
	headingCaps     = regexp.MustCompile(`^[A-Z][A-Z .,'&-]{3,79}$`)

	footnoteMarker = regexp.MustCompile(`^\s*(?:\[\d+\]|\d+\.\s)|^\s*[*†‡]`)
)

// AnalyzeStructure partitions opinion or order text into sections,
// paragraphs, and footnote blocks using heading and indentation heuristics.
// Dockets never reach this; the orchestrator skips the stage for categories
// without prose structure.
func AnalyzeStructure(content string) model.DocumentStructure {
	var s model.DocumentStructure

	blocks := strings.Split(content, "\n\n")
	inFootnotes := false

	for _, block := range blocks {
		block = strings.TrimRight(block, "\n \t")
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}

		firstLine := trimmed
		if idx := strings.IndexByte(trimmed, '\n'); idx > 0 {
			firstLine = trimmed[:idx]
		}

		switch {
		case isFootnoteHeading(firstLine):
			inFootnotes = true
		case inFootnotes && footnoteMarker.MatchString(firstLine):
			s.Footnotes++
		case headingNumbered.MatchString(firstLine) || headingCaps.MatchString(firstLine):
			s.Sections = append(s.Sections, strings.TrimSpace(firstLine))
			// A heading block may carry body text below the heading line.
			if strings.Contains(trimmed, "\n") {
				s.Paragraphs++
			}
		default:
			s.Paragraphs++
		}
	}

	// Footnotes can also appear inline as bracketed markers at line starts
	// outside a dedicated footnote section.
	if s.Footnotes == 0 {
		for _, line := range strings.Split(content, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "[") && footnoteMarker.MatchString(line) {
				s.Footnotes++
			}
		}
	}

	return s
}

func isFootnoteHeading(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	return l == "footnotes" || l == "notes" || strings.HasPrefix(l, "footnote")
}
