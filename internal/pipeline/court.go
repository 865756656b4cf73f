package pipeline

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/model"
	"github.com/courtpipe/courtpipe/internal/refdata"
)

// ResolveCourt runs the four resolution strategies in order and returns on
// the first success: explicit court-code field, source URL path segment,
// case-number convention, court-name scan of the content. When all four
// fail the result is unresolved, never a default court. Silently
// substituting a default corrupts judge cross-validation downstream.
func ResolveCourt(doc model.RawDocument, courts *refdata.CourtTable) model.ResolvedCourt {
	// 1. Explicit court-code field.
	if hint := strings.TrimSpace(doc.Meta.CourtHint); hint != "" && courts.IsKnownCode(hint) {
		return model.ResolvedCourt{Code: strings.ToLower(hint), Tier: model.CourtTierExact}
	}

	// 2. Source URL path segment: .../courts/{code}/...
	if code, ok := courtFromURL(doc.Meta.SourceURL, courts); ok {
		return model.ResolvedCourt{Code: code, Tier: model.CourtTierPattern}
	}

	// 3. Case-number convention.
	if cn := doc.Meta.CaseNumber; cn != "" {
		if code, ok := courts.MatchCaseNumber(cn); ok {
			return model.ResolvedCourt{Code: code, Tier: model.CourtTierPattern}
		}
	}

	// 4. Court-name scan of the content.
	if content := doc.Text(); content != "" {
		if code, ok := courts.MatchName(content); ok {
			return model.ResolvedCourt{Code: code, Tier: model.CourtTierPattern}
		}
	}

	zap.L().Debug("court: unresolved",
		zap.String("source_id", doc.SourceID),
		zap.String("hint", doc.Meta.CourtHint),
	)
	return model.UnresolvedCourt()
}

// courtFromURL extracts a court code from a path segment following
// "courts" or "court", validated against the known-code set.
func courtFromURL(rawURL string, courts *refdata.CourtTable) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if (seg == "courts" || seg == "court") && i+1 < len(segments) {
			candidate := strings.ToLower(segments[i+1])
			if courts.IsKnownCode(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}
