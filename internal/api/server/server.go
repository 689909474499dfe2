package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "rapidscribe/docs" // generated swagger docs
	"rapidscribe/internal/api/middleware"
	"rapidscribe/internal/api/v1/handlers"
	v1routes "rapidscribe/internal/api/v1/routes"
	"rapidscribe/internal/api/v1/services"
	"rapidscribe/internal/app/api"
	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/app/assistant"
	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/config"
	"rapidscribe/internal/logger"
)

// apiVersion is reported by / and /health.
const apiVersion = "1.0.0"

// Config holds HTTP server configuration.
type Config struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Environment     string
}

// DefaultConfig returns server configuration from the environment. The
// generous read/write timeouts cover multi-hundred-megabyte audio uploads.
func DefaultConfig() Config {
	sc := config.GetServerConfig()
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}
	return Config{
		Host:            sc.Host,
		Port:            sc.Port,
		ReadTimeout:     10 * time.Minute,
		WriteTimeout:    10 * time.Minute,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
		Environment:     environment,
	}
}

// Dependencies are the backing components the HTTP layer exposes.
type Dependencies struct {
	Transcriber api.Transcriber
	Assistant   *assistant.Assistant
	Registry    provider.ProviderRegistry
	Store       repository.Store
	Storage     services.StorageService
	Settings    *config.Settings
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer builds the router, wires the v1 services and returns a server
// ready to Start.
func NewServer(cfg Config, deps Dependencies) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	log := logger.MustNew("server")

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogging(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	container := &v1routes.ServiceContainer{
		JobService: services.NewTranscriptionJobService(
			deps.Transcriber,
			deps.Store,
			deps.Storage,
			filepath.Join(deps.Settings.AudioDir, "uploads"),
		),
		AssistService:   services.NewAssistService(deps.Assistant, deps.Settings),
		ProviderService: services.NewProviderService(deps.Registry),
		StatsService:    services.NewStatsService(deps.Store),
		ExportService:   services.NewExportService(deps.Store),
	}

	registerRoutes(router, container)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		log:        log,
	}
}

func registerRoutes(router *gin.Engine, container *v1routes.ServiceContainer) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "rapidscribe",
			"version": apiVersion,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The first public version answered on this route with this response
	// shape; both are kept for existing clients.
	if container.AssistService != nil {
		assistHandler := handlers.NewAssistHandler(container.AssistService)
		router.GET("/rapid/exampleai", assistHandler.LegacyAsk)
	}

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, container)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":       "Hello World",
			"service":       "rapidscribe",
			"version":       apiVersion,
			"documentation": "/swagger/index.html",
			"endpoints": gin.H{
				"health":         "/health",
				"metrics":        "/metrics",
				"assist":         "/api/v1/assist",
				"transcriptions": "/api/v1/transcriptions",
				"providers":      "/api/v1/providers",
				"stats":          "/api/v1/stats",
				"export":         "/api/v1/export",
			},
		})
	})
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	s.log.Info("starting API server",
		zap.String("host", s.config.Host),
		zap.String("port", s.config.Port),
		zap.String("environment", s.config.Environment),
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	s.log.Info("API server listening", zap.String("address", s.httpServer.Addr))
	return nil
}

// Run starts the server and blocks until SIGINT or SIGTERM, then drains
// in-flight requests for up to ShutdownTimeout.
func (s *Server) Run() error {
	if err := s.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	s.log.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("forced shutdown", zap.Error(err))
		return err
	}
	s.log.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
