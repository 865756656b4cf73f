package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocuments(t *testing.T) {
	input := strings.Join([]string{
		`{"source_id":"a","source":"pacer","content":"Opinion text"}`,
		``,
		`not json at all`,
		`{"source":"pacer","structured_entries":[{"description":"Complaint filed"}]}`,
	}, "\n")

	docs, err := decodeDocuments(strings.NewReader(input), 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "a", docs[0].SourceID)
	require.NotNil(t, docs[0].Content)
	assert.Equal(t, "Opinion text", *docs[0].Content)

	// Missing source ids are synthesized from the line number.
	assert.Equal(t, "line-4", docs[1].SourceID)
	require.Len(t, docs[1].Entries, 1)
}

func TestDecodeDocuments_Limit(t *testing.T) {
	input := strings.Join([]string{
		`{"source_id":"1"}`,
		`{"source_id":"2"}`,
		`{"source_id":"3"}`,
	}, "\n")

	docs, err := decodeDocuments(strings.NewReader(input), 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
