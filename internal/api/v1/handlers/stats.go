package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rapidscribe/internal/api/middleware"
	"rapidscribe/internal/api/v1/services"
)

// StatsHandler handles transcript statistics endpoints.
type StatsHandler struct {
	service services.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// GetSystemStats handles GET /api/v1/stats
//
// @Summary System-wide transcript statistics
// @Tags stats
// @Produce json
// @Success 200 {object} dto.SystemStatsResponse "Totals plus per-collection breakdown"
// @Router /stats [get]
func (h *StatsHandler) GetSystemStats(c *gin.Context) {
	resp, err := h.service.GetSystemStats(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCollectionStats handles GET /api/v1/stats/collections
//
// @Summary Per-collection transcript statistics
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]interface{} "Per-collection aggregates"
// @Router /stats/collections [get]
func (h *StatsHandler) GetCollectionStats(c *gin.Context) {
	resp, err := h.service.GetCollectionStats(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": resp,
		"total":       len(resp),
	})
}
