package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtpipe/courtpipe/internal/model"
)

func TestExtractKeywords_LegalTermsAndMarkers(t *testing.T) {
	doc := model.RawDocument{
		Content: strPtr("The motion for summary judgment is DENIED. The court retains jurisdiction."),
	}

	keywords := ExtractKeywords(doc)
	assert.Equal(t, []string{"denied", "jurisdiction", "summary judgment"}, keywords)
}

// Longer phrases suppress their substrings: "dismissed with prejudice"
// shadows "dismissed".
func TestExtractKeywords_LongerPhraseWins(t *testing.T) {
	doc := model.RawDocument{
		Content: strPtr("The case is dismissed with prejudice."),
	}

	keywords := ExtractKeywords(doc)
	assert.Contains(t, keywords, "dismissed with prejudice")
	assert.NotContains(t, keywords, "dismissed")
}

func TestExtractKeywords_FromEntries(t *testing.T) {
	doc := model.RawDocument{
		Entries: []model.DocketEntry{
			{Description: "ORDER granting motion to compel"},
			{Description: "Case remanded to state court"},
		},
	}

	keywords := ExtractKeywords(doc)
	assert.Contains(t, keywords, "motion to compel")
	assert.Contains(t, keywords, "remanded")
}

func TestExtractKeywords_NoText(t *testing.T) {
	assert.Nil(t, ExtractKeywords(model.RawDocument{}))
}

func TestExtractKeywords_NoMatches(t *testing.T) {
	doc := model.RawDocument{Content: strPtr("Nothing of procedural interest here.")}
	assert.Nil(t, ExtractKeywords(doc))
}
