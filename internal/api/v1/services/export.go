package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/app/batch/export"
	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/repository"
)

// defaultExportLimit caps exports that name no limit.
const defaultExportLimit = 1000

// ExportServiceImpl streams stored transcripts as xlsx, csv or json.
type ExportServiceImpl struct {
	db repository.TranscriptDAO
}

// NewExportService creates the export service.
func NewExportService(db repository.TranscriptDAO) *ExportServiceImpl {
	return &ExportServiceImpl{db: db}
}

// ExportTranscripts fetches the selected transcripts and writes them to w.
// Nothing is written until the fetch has succeeded, so callers can still
// report fetch errors with a clean status code.
func (s *ExportServiceImpl) ExportTranscripts(ctx context.Context, query dto.ExportQuery, w io.Writer) error {
	transcripts, err := s.fetch(ctx, query)
	if err != nil {
		return err
	}

	switch query.Format {
	case "", "xlsx":
		return export.WriteExcel(transcripts, w)
	case "csv":
		return writeCSV(transcripts, w)
	case "json":
		return writeJSON(transcripts, w)
	default:
		return fmt.Errorf("unsupported export format: %s", query.Format)
	}
}

func (s *ExportServiceImpl) fetch(ctx context.Context, query dto.ExportQuery) ([]model.Transcript, error) {
	limit := query.Limit
	if limit == 0 {
		limit = defaultExportLimit
	}

	if query.Collection != "" {
		transcripts, err := s.db.GetAllByCollection(ctx, query.Collection)
		if err != nil {
			return nil, err
		}
		if len(transcripts) > limit {
			transcripts = transcripts[:limit]
		}
		return transcripts, nil
	}

	return s.db.ListRecent(ctx, limit)
}

func writeCSV(transcripts []model.Transcript, w io.Writer) error {
	csvWriter := csv.NewWriter(w)

	header := []string{
		"ID", "Collection", "Created At", "File Name",
		"Audio Duration (s)", "Provider", "Transcript", "Error",
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range transcripts {
		row := []string{
			strconv.Itoa(t.ID),
			t.Collection,
			t.CreatedAt.Format(time.RFC3339),
			t.FileName,
			fmt.Sprintf("%.2f", t.AudioDuration),
			t.Provider,
			t.Text,
			t.ErrorMessage,
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func writeJSON(transcripts []model.Transcript, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(transcripts)
}
