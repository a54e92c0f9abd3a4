package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Pending photo corrections",
		Headers: []string{"studentId", "fullName", "status"},
		Rows: []map[string]string{
			{"studentId": "SE170001", "fullName": "Nguyễn Văn A", "status": "pending"},
			{"studentId": "HE150002", "status": "pending"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(out[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"SE170001", "Nguyễn Văn A", "pending"}, records[1])
	assert.Equal(t, []string{"HE150002", "", "pending"}, records[2])
}

func TestCSVExporterQuotesFormulaCells(t *testing.T) {
	data := Dataset{
		Headers: []string{"studentId", "note"},
		Rows: []map[string]string{
			{"studentId": "SE170001", "note": `=HYPERLINK("http://evil","x")`},
			{"studentId": "SE170002", "note": "+84 912 345 678"},
			{"studentId": "SE170003", "note": "-1+2"},
			{"studentId": "SE170004", "note": "@SUM(A1:A2)"},
			{"studentId": "SE170005", "note": "\t=1"},
			{"studentId": "SE170006", "note": "Tên sai chính tả, a=b"},
		},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, `'=HYPERLINK("http://evil","x")`, records[1][1])
	assert.Equal(t, "'+84 912 345 678", records[2][1])
	assert.Equal(t, "'-1+2", records[3][1])
	assert.Equal(t, "'@SUM(A1:A2)", records[4][1])
	assert.Equal(t, "'\t=1", records[5][1])
	assert.Equal(t, "Tên sai chính tả, a=b", records[6][1])
	assert.Equal(t, "SE170001", records[1][0])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
