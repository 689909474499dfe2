package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rapidscribe/internal/api/middleware"
	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/api/v1/services"
)

// exportContentTypes maps export formats to their media type and filename.
var exportContentTypes = map[string]struct {
	contentType string
	filename    string
}{
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "transcripts.xlsx"},
	"csv":  {"text/csv", "transcripts.csv"},
	"json": {"application/json", "transcripts.json"},
}

// ExportHandler handles transcript export downloads.
type ExportHandler struct {
	service services.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export handles GET /api/v1/export
//
// The export is buffered before any response byte is written, so errors
// still go out with a proper status code instead of corrupting a download.
//
// @Summary Download stored transcripts
// @Description Exports transcripts as xlsx, csv or json, optionally filtered to one collection
// @Tags export
// @Produce application/octet-stream
// @Param format query string false "Export format" default(xlsx) Enums(xlsx,csv,json)
// @Param collection query string false "Limit to one collection"
// @Param limit query int false "Maximum rows" minimum(1) maximum(10000)
// @Success 200 {file} file "Export file"
// @Failure 422 {object} errors.Envelope "Invalid query parameters"
// @Router /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportTranscripts(c.Request.Context(), query, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	meta := exportContentTypes[query.Format]
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.filename))
	c.Data(http.StatusOK, meta.contentType, buf.Bytes())
}
