package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rapidscribe/internal/api/middleware"
	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/api/v1/services"
)

// AssistHandler handles assistant endpoints.
type AssistHandler struct {
	service services.AssistService
}

// NewAssistHandler creates a new assist handler.
func NewAssistHandler(service services.AssistService) *AssistHandler {
	return &AssistHandler{service: service}
}

// Assist handles POST /api/v1/assist
//
// @Summary Ask the assistant about an audio file
// @Description Transcribes the referenced audio file, folds the transcript into the message and returns the LLM reply
// @Tags assist
// @Accept json
// @Produce json
// @Param request body dto.AssistRequest true "Assist request"
// @Success 200 {object} dto.AssistResponse "Assistant reply"
// @Failure 404 {object} errors.Envelope "Audio file not found"
// @Failure 422 {object} errors.Envelope "Validation error"
// @Failure 503 {object} errors.Envelope "LLM unreachable"
// @Router /assist [post]
func (h *AssistHandler) Assist(c *gin.Context) {
	var req dto.AssistRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Assist(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LegacyAsk handles GET /rapid/exampleai
//
// The route, parameter names and the "joke" response key are preserved from
// the first public version of the service; existing clients depend on all
// three.
func (h *AssistHandler) LegacyAsk(c *gin.Context) {
	req := dto.AssistRequest{
		Message:   c.Query("message"),
		AudioPath: c.Query("audio_path"),
		Format:    c.Query("format"),
	}
	if err := req.Validate(); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Assist(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"joke": resp.Reply})
}
