package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestFromXLSX_HeaderMapping(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"source_id", "court_hint", "case_number", "assigned_judge", "content", "tag"},
			{"doc-1", "txed", "2:21-cv-00463-RG", "Rodney Gilstrap", "Opinion text here.", "patent"},
			{"doc-2", "", "1:19-cv-100", "", "", ""},
		},
	})

	docs, err := FromXLSX(path, XLSXOptions{Source: "vendor-feed"})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "doc-1", docs[0].SourceID)
	assert.Equal(t, "vendor-feed", docs[0].Source)
	assert.Equal(t, "txed", docs[0].Meta.CourtHint)
	assert.Equal(t, "2:21-cv-00463-RG", docs[0].Meta.CaseNumber)
	assert.Equal(t, "Rodney Gilstrap", docs[0].Meta.AssignedJudge)
	require.NotNil(t, docs[0].Content)
	assert.Equal(t, "Opinion text here.", *docs[0].Content)
	assert.Equal(t, "patent", docs[0].Meta.Extra["tag"])

	assert.Equal(t, "doc-2", docs[1].SourceID)
	assert.Nil(t, docs[1].Content)
}

func TestFromXLSX_EntriesColumn(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"source_id", "docket_entry"},
			{"dk-1", "Order granting motion, see 123 F.3d 456"},
		},
	})

	docs, err := FromXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Len(t, docs[0].Entries, 1)
	assert.Equal(t, "Order granting motion, see 123 F.3d 456", docs[0].Entries[0].Description)
}

func TestFromXLSX_SkipsEmptyRows(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"source_id", "content"},
			{"", ""},
			{"doc-1", "Some text"},
		},
	})

	docs, err := FromXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestFromXLSX_SheetByName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Documents": {
			{"source_id"},
			{"doc-1"},
		},
	})

	docs, err := FromXLSX(path, XLSXOptions{SheetName: "Documents"})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = FromXLSX(path, XLSXOptions{SheetName: "Missing"})
	assert.Error(t, err)
}
