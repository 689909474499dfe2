package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/api/v1/services"
	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/testutil"
)

func TestExportCSV(t *testing.T) {
	store := testutil.NewMockStore()
	seedTranscripts(t, store)
	svc := services.NewExportService(store)

	var buf bytes.Buffer
	err := svc.ExportTranscripts(context.Background(), dto.ExportQuery{Format: "csv"}, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5) // header + 4 rows

	assert.Equal(t, []string{
		"ID", "Collection", "Created At", "File Name",
		"Audio Duration (s)", "Provider", "Transcript", "Error",
	}, records[0])

	// ListRecent serves newest first.
	assert.Equal(t, "candidate.mp3", records[1][3])
	assert.Equal(t, "interviews", records[1][1])
}

func TestExportJSON(t *testing.T) {
	store := testutil.NewMockStore()
	seedTranscripts(t, store)
	svc := services.NewExportService(store)

	var buf bytes.Buffer
	err := svc.ExportTranscripts(context.Background(), dto.ExportQuery{Format: "json"}, &buf)
	require.NoError(t, err)

	var rows []model.Transcript
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Len(t, rows, 4)
}

func TestExportXlsxWritesWorkbook(t *testing.T) {
	store := testutil.NewMockStore()
	seedTranscripts(t, store)
	svc := services.NewExportService(store)

	var buf bytes.Buffer
	err := svc.ExportTranscripts(context.Background(), dto.ExportQuery{}, &buf)
	require.NoError(t, err)

	// xlsx files are zip archives.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "expected a zip container")
}

func TestExportFiltersByCollection(t *testing.T) {
	store := testutil.NewMockStore()
	seedTranscripts(t, store)
	svc := services.NewExportService(store)

	var buf bytes.Buffer
	err := svc.ExportTranscripts(context.Background(), dto.ExportQuery{Format: "json", Collection: "meetings"}, &buf)
	require.NoError(t, err)

	var rows []model.Transcript
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))

	// Error rows are excluded from collection exports.
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "meetings", row.Collection)
	}
}

func TestExportHonorsLimit(t *testing.T) {
	store := testutil.NewMockStore()
	seedTranscripts(t, store)
	svc := services.NewExportService(store)

	var buf bytes.Buffer
	err := svc.ExportTranscripts(context.Background(), dto.ExportQuery{Format: "json", Limit: 2}, &buf)
	require.NoError(t, err)

	var rows []model.Transcript
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestExportUnknownFormat(t *testing.T) {
	svc := services.NewExportService(testutil.NewMockStore())

	var buf bytes.Buffer
	err := svc.ExportTranscripts(context.Background(), dto.ExportQuery{Format: "pdf"}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestExportWritesNothingOnUnknownFormat(t *testing.T) {
	store := testutil.NewMockStore()
	seedTranscripts(t, store)
	svc := services.NewExportService(store)

	var buf bytes.Buffer
	_ = svc.ExportTranscripts(context.Background(), dto.ExportQuery{Format: "pdf"}, &buf)
	assert.Zero(t, buf.Len())
}
