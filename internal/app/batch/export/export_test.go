package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/testutil"
)

func TestToExcel(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "transcripts.xlsx")

	transcripts := []model.Transcript{
		testutil.GenerateTranscript(1, "podcast", "ep1.mp3", 120.5, "hello from episode one"),
		testutil.GenerateTranscript(2, "podcast", "ep2.mp3", 64, "hello from episode two"),
	}

	require.NoError(t, ToExcel(transcripts, outputPath))

	file, err := xlsx.OpenFile(outputPath)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Transcripts", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	header := sheet.Rows[0]
	assert.Equal(t, "ID", header.Cells[0].Value)
	assert.Equal(t, "Transcript", header.Cells[6].Value)

	first := sheet.Rows[1]
	assert.Equal(t, "1", first.Cells[0].Value)
	assert.Equal(t, "podcast", first.Cells[1].Value)
	assert.Equal(t, "ep1.mp3", first.Cells[3].Value)
	assert.Equal(t, "120.50", first.Cells[4].Value)
	assert.Equal(t, "hello from episode one", first.Cells[6].Value)
}

func TestToExcelEmptyInput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, ToExcel(nil, outputPath))

	file, err := xlsx.OpenFile(outputPath)
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 1)
}

func TestToExcelBadPath(t *testing.T) {
	err := ToExcel(nil, "/does/not/exist/out.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save")
}

func TestWriteExcelStreamsSameWorkbook(t *testing.T) {
	transcripts := []model.Transcript{
		testutil.GenerateTranscript(1, "podcast", "ep1.mp3", 120.5, "hello from episode one"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExcel(transcripts, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	require.Len(t, file.Sheets[0].Rows, 2)
	assert.Equal(t, "ep1.mp3", file.Sheets[0].Rows[1].Cells[3].Value)
}
