package routes

import (
	"github.com/gin-gonic/gin"

	"rapidscribe/internal/api/v1/handlers"
	"rapidscribe/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers.
type ServiceContainer struct {
	JobService      services.JobService
	AssistService   services.AssistService
	ProviderService services.ProviderService
	StatsService    services.StatsService
	ExportService   services.ExportService
}

// RegisterRoutes registers all v1 API routes.
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.JobService)
	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("", transcriptionHandler.Create)
		transcriptions.POST("/upload", transcriptionHandler.Upload)
		transcriptions.GET("", transcriptionHandler.List)
		transcriptions.GET("/:id", transcriptionHandler.Get)
		transcriptions.DELETE("/:id", transcriptionHandler.Delete)
	}

	if container.AssistService != nil {
		assistHandler := handlers.NewAssistHandler(container.AssistService)
		router.POST("/assist", assistHandler.Assist)
	}

	if container.ProviderService != nil {
		providerHandler := handlers.NewProviderHandler(container.ProviderService)
		providers := router.Group("/providers")
		{
			providers.GET("", providerHandler.List)
			providers.GET("/:id", providerHandler.Get)
			providers.GET("/:id/status", providerHandler.GetStatus)
		}
	}

	if container.StatsService != nil {
		statsHandler := handlers.NewStatsHandler(container.StatsService)
		stats := router.Group("/stats")
		{
			stats.GET("", statsHandler.GetSystemStats)
			stats.GET("/collections", statsHandler.GetCollectionStats)
		}
	}

	if container.ExportService != nil {
		exportHandler := handlers.NewExportHandler(container.ExportService)
		router.GET("/export", exportHandler.Export)
	}
}
