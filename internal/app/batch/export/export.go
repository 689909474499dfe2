// Package export writes stored transcripts to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"

	"rapidscribe/internal/app/model"
)

// buildWorkbook lays the transcripts out on a single sheet.
func buildWorkbook(transcripts []model.Transcript) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcripts")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range []string{
		"ID", "Collection", "Created At", "File Name",
		"Audio Duration (s)", "Provider", "Transcript", "Error",
	} {
		headerRow.AddCell().Value = header
	}

	for _, t := range transcripts {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(t.ID)
		row.AddCell().Value = t.Collection
		row.AddCell().Value = t.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = t.FileName
		row.AddCell().Value = fmt.Sprintf("%.2f", t.AudioDuration)
		row.AddCell().Value = t.Provider
		row.AddCell().Value = t.Text
		row.AddCell().Value = t.ErrorMessage
	}

	return file, nil
}

// ToExcel writes the transcripts to a single-sheet xlsx file.
func ToExcel(transcripts []model.Transcript, outputFilePath string) error {
	file, err := buildWorkbook(transcripts)
	if err != nil {
		return err
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}

// WriteExcel streams the same workbook to w. The HTTP export endpoint uses
// this to write straight into the response.
func WriteExcel(transcripts []model.Transcript, w io.Writer) error {
	file, err := buildWorkbook(transcripts)
	if err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
