package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCSV(t *testing.T) {
	input := strings.Join([]string{
		"source_id,court_hint,case_number,content",
		`doc-1,txed,2:21-cv-00463-RG,"Opinion text, with a comma."`,
		"doc-2,,1:19-cv-100,",
		",,,",
	}, "\n")

	docs, err := decodeCSV(strings.NewReader(input), CSVOptions{Source: "vendor"})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "doc-1", docs[0].SourceID)
	assert.Equal(t, "vendor", docs[0].Source)
	assert.Equal(t, "txed", docs[0].Meta.CourtHint)
	require.NotNil(t, docs[0].Content)
	assert.Equal(t, "Opinion text, with a comma.", *docs[0].Content)

	assert.Equal(t, "1:19-cv-100", docs[1].Meta.CaseNumber)
	assert.Nil(t, docs[1].Content)
}

func TestDecodeCSV_CustomDelimiter(t *testing.T) {
	input := "source_id\tcontent\ndoc-1\tSome text"

	docs, err := decodeCSV(strings.NewReader(input), CSVOptions{Delimiter: '\t'})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].SourceID)
}

func TestDecodeCSV_Empty(t *testing.T) {
	docs, err := decodeCSV(strings.NewReader(""), CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}
