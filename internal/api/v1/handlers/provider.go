package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rapidscribe/internal/api/middleware"
	"rapidscribe/internal/api/v1/services"
)

// ProviderHandler handles provider inspection endpoints.
type ProviderHandler struct {
	service services.ProviderService
}

// NewProviderHandler creates a new provider handler.
func NewProviderHandler(service services.ProviderService) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// List handles GET /api/v1/providers
//
// @Summary List transcription providers
// @Description Returns every registered provider with its capabilities and current health
// @Tags providers
// @Produce json
// @Success 200 {object} map[string]interface{} "Registered providers"
// @Router /providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	resp, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": resp,
		"total":     len(resp),
	})
}

// Get handles GET /api/v1/providers/:id
//
// @Summary Get one provider
// @Tags providers
// @Produce json
// @Param id path string true "Provider name"
// @Success 200 {object} dto.ProviderResponse "Provider details"
// @Failure 404 {object} errors.Envelope "Provider not found"
// @Router /providers/{id} [get]
func (h *ProviderHandler) Get(c *gin.Context) {
	resp, err := h.service.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStatus handles GET /api/v1/providers/:id/status
//
// @Summary Health-check one provider
// @Description Runs a timed health check against the provider and reports the outcome
// @Tags providers
// @Produce json
// @Param id path string true "Provider name"
// @Success 200 {object} dto.ProviderStatusResponse "Health check result"
// @Failure 404 {object} errors.Envelope "Provider not found"
// @Router /providers/{id}/status [get]
func (h *ProviderHandler) GetStatus(c *gin.Context) {
	resp, err := h.service.GetProviderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
