package pipeline

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/model"
	"github.com/courtpipe/courtpipe/internal/refdata"
)

// judgeContentPatterns match judge identifications in prose. The captured
// group is the name. Grammar is code; the identities themselves live in the
// refdata tables.
var judgeContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbefore\s+(?:the\s+honorable\s+|hon\.\s+|judge\s+)([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){1,3})`),
	regexp.MustCompile(`(?i)\b(?:district|magistrate|circuit)\s+judge\s+([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){1,3})`),
	regexp.MustCompile(`(?i)\bhonorable\s+([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){1,3})`),
	regexp.MustCompile(`(?i)\bjudge\s+([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){1,3})\s+presiding`),
}

// initialsSuffix matches trailing judge initials on a case number,
// e.g. "2:21-cv-00463-RG" or "2:21-cv-00463-RG-RSP".
var initialsSuffix = regexp.MustCompile(`-([A-Z]{2,4})(?:-[A-Z]{2,4})?$`)

// ResolveJudge attempts judge identification in priority order:
//
//  1. Structured metadata field, used verbatim. This is the highest
//     confidence source and is checked even when content is empty;
//     docket-type documents carry their judge only here.
//  2. Named patterns in content.
//  3. Initials lookup from the case number, cross-validated against the
//     resolved court. With an unresolved court the match is kept but
//     flagged low confidence rather than rejected.
//  4. A bare external identifier (profile URL with no name) is stored as a
//     resolution, not discarded.
//
// The boolean reports whether any identity was found.
func ResolveJudge(doc model.RawDocument, court model.ResolvedCourt, judges *refdata.JudgeTable) (model.ResolvedJudge, bool) {
	// 1. Structured metadata.
	if name := strings.TrimSpace(doc.Meta.AssignedJudge); name != "" {
		return model.ResolvedJudge{
			Name:           cleanJudgeName(name),
			Source:         model.JudgeSourceMetadata,
			ExternalID:     doc.Meta.AssignedJudgeURL,
			Court:          court.Code,
			CrossValidated: court.Resolved(),
		}, true
	}

	// 2. Content patterns.
	if content := doc.Text(); content != "" {
		for _, re := range judgeContentPatterns {
			if m := re.FindStringSubmatch(content); m != nil {
				return model.ResolvedJudge{
					Name:           cleanJudgeName(m[1]),
					Source:         model.JudgeSourceContent,
					Court:          court.Code,
					CrossValidated: court.Resolved(),
				}, true
			}
		}
	}

	// 3. Initials lookup.
	if m := initialsSuffix.FindStringSubmatch(strings.TrimSpace(doc.Meta.CaseNumber)); m != nil {
		for _, entry := range judges.LookupInitials(m[1]) {
			switch {
			case court.Resolved() && entry.Court == court.Code:
				return model.ResolvedJudge{
					Name:           entry.Name,
					Source:         model.JudgeSourceInitials,
					Court:          entry.Court,
					CrossValidated: true,
				}, true
			case !court.Resolved():
				// No court to validate against: keep, flag low confidence.
				return model.ResolvedJudge{
					Name:          entry.Name,
					Source:        model.JudgeSourceInitials,
					Court:         entry.Court,
					LowConfidence: true,
				}, true
			default:
				zap.L().Debug("judge: initials match rejected by court cross-validation",
					zap.String("source_id", doc.SourceID),
					zap.String("initials", m[1]),
					zap.String("judge_court", entry.Court),
					zap.String("resolved_court", court.Code),
				)
			}
		}
	}

	// 4. External identifier only.
	if id := strings.TrimSpace(doc.Meta.AssignedJudgeURL); id != "" {
		return model.ResolvedJudge{
			Source:     model.JudgeSourceExternalID,
			ExternalID: id,
			Court:      court.Code,
		}, true
	}

	return model.ResolvedJudge{}, false
}

// cleanJudgeName strips titles and trailing punctuation from a judge name.
func cleanJudgeName(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range []string{"Judge ", "Hon. ", "Honorable ", "The Honorable "} {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimPrefix(name, prefix)
		}
	}
	return strings.Trim(name, " .,")
}
