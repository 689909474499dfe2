package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rapidscribe/internal/api/errors"
	"rapidscribe/internal/api/middleware"
	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/api/v1/services"
)

// TranscriptionHandler handles asynchronous transcription job endpoints.
type TranscriptionHandler struct {
	service services.JobService
}

// NewTranscriptionHandler creates a new transcription handler.
func NewTranscriptionHandler(service services.JobService) *TranscriptionHandler {
	return &TranscriptionHandler{service: service}
}

// Create handles POST /api/v1/transcriptions
//
// @Summary Create a transcription job
// @Description Accepts a job for a file the server can reach and returns its ID immediately; poll the job for the result
// @Tags transcriptions
// @Accept json
// @Produce json
// @Param transcription body dto.CreateTranscriptionRequest true "Job parameters"
// @Success 202 {object} dto.TranscriptionJobResponse "Job accepted"
// @Failure 400 {object} errors.Envelope "File not reachable"
// @Failure 422 {object} errors.Envelope "Validation error"
// @Router /transcriptions [post]
func (h *TranscriptionHandler) Create(c *gin.Context) {
	var req dto.CreateTranscriptionRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.CreateJob(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// Upload handles POST /api/v1/transcriptions/upload
//
// @Summary Upload an audio file and transcribe it
// @Description Accepts a multipart upload, stores it and returns a job ID; poll the job for the result
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file"
// @Param collection formData string false "Collection to file the transcript under"
// @Param provider formData string false "Transcription provider override"
// @Param language formData string false "Language hint"
// @Success 202 {object} dto.TranscriptionJobResponse "Job accepted"
// @Failure 400 {object} errors.Envelope "No file in request"
// @Router /transcriptions/upload [post]
func (h *TranscriptionHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("no file uploaded"))
		return
	}
	defer file.Close()

	req := &dto.CreateTranscriptionRequest{
		Collection: c.PostForm("collection"),
		Provider:   c.PostForm("provider"),
		Language:   c.PostForm("language"),
	}

	resp, err := h.service.CreateJobFromUpload(c.Request.Context(), file, header, req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// Get handles GET /api/v1/transcriptions/:id
//
// @Summary Get a transcription job
// @Description Returns the job's current status, and the transcript once completed
// @Tags transcriptions
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.TranscriptionJobResponse "Job state"
// @Failure 404 {object} errors.Envelope "Job not found"
// @Router /transcriptions/{id} [get]
func (h *TranscriptionHandler) Get(c *gin.Context) {
	resp, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/v1/transcriptions
//
// @Summary List transcription jobs
// @Description Returns jobs newest first with pagination, optionally filtered by status
// @Tags transcriptions
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Items per page" default(20) minimum(1) maximum(100)
// @Param status query string false "Filter by status" Enums(pending,processing,completed,failed)
// @Success 200 {object} dto.PaginatedJobsResponse "Page of jobs"
// @Failure 422 {object} errors.Envelope "Invalid query parameters"
// @Header 200 {string} X-Total-Count "Total number of jobs"
// @Router /transcriptions [get]
func (h *TranscriptionHandler) List(c *gin.Context) {
	var query dto.ListJobsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.ListJobs(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(resp.Pagination.Total))
	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/transcriptions/:id
//
// @Summary Delete a transcription job
// @Description Forgets the job and removes its mirrored upload; stored transcripts are kept
// @Tags transcriptions
// @Param id path string true "Job ID"
// @Success 204 "Job deleted"
// @Failure 404 {object} errors.Envelope "Job not found"
// @Router /transcriptions/{id} [delete]
func (h *TranscriptionHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
