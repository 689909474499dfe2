package provider

import (
	"context"
)

// TranscriptionProvider is a pluggable speech-to-text backend.
type TranscriptionProvider interface {
	// Transcript is the plain-path entry point kept for the batch pipeline.
	Transcript(inputFilePath string) (string, error)

	// TranscriptWithOptions is the full-featured entry point with context support.
	TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// GetProviderInfo reports the provider's capabilities.
	GetProviderInfo() ProviderInfo

	// ValidateConfiguration checks the provider is usable as configured.
	ValidateConfiguration() error

	// HealthCheck verifies the provider is reachable and functioning.
	HealthCheck(ctx context.Context) error
}

// ChatProvider is a pluggable chat-completion backend.
type ChatProvider interface {
	// ChatCompletion sends a system+user prompt pair and returns the reply text.
	ChatCompletion(ctx context.Context, request *ChatRequest) (*ChatResponse, error)

	GetProviderInfo() ProviderInfo

	ValidateConfiguration() error

	HealthCheck(ctx context.Context) error
}

// ProviderFactory creates provider instances from configuration.
type ProviderFactory interface {
	CreateProvider(providerType string, config map[string]interface{}) (TranscriptionProvider, error)
	GetAvailableProviders() []string
	GetProviderInfo(providerType string) (ProviderInfo, error)
}

// ProviderRegistry manages named transcription providers.
type ProviderRegistry interface {
	RegisterProvider(name string, provider TranscriptionProvider) error
	GetProvider(name string) (TranscriptionProvider, error)
	ListProviders() []string
	GetDefaultProvider() (TranscriptionProvider, error)
	SetDefaultProvider(name string) error
	HealthCheckAll(ctx context.Context) map[string]error
}

// ChatRegistry manages named chat providers.
type ChatRegistry interface {
	RegisterProvider(name string, provider ChatProvider) error
	GetProvider(name string) (ChatProvider, error)
	ListProviders() []string
	GetDefaultProvider() (ChatProvider, error)
	SetDefaultProvider(name string) error
}

// TranscriptionOrchestrator routes requests across providers with fallback.
type TranscriptionOrchestrator interface {
	// Transcribe picks a provider automatically, falling back on failure.
	Transcribe(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// TranscribeWithProvider tries the named provider first, then the
	// configured fallback chain.
	TranscribeWithProvider(ctx context.Context, providerName string, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// RecommendProvider returns candidate providers in try-order.
	RecommendProvider(request *TranscriptionRequest) ([]string, error)

	GetStats() OrchestratorStats
}

// OrchestratorStats provides counters about orchestrated transcriptions.
type OrchestratorStats struct {
	TotalRequests      int64            `json:"total_requests"`
	SuccessfulRequests int64            `json:"successful_requests"`
	FailedRequests     int64            `json:"failed_requests"`
	ProviderUsage      map[string]int64 `json:"provider_usage"`
	ErrorsByProvider   map[string]int64 `json:"errors_by_provider"`
}

// ProviderMetrics records per-provider outcomes.
type ProviderMetrics interface {
	RecordSuccess(provider string, latencyMs int64, audioLengthSec float64)
	RecordFailure(provider string, errorType string)
	GetProviderMetrics(provider string) ProviderStats
	GetOverallMetrics() OverallStats
}

// ProviderStats contains statistics for a specific provider.
type ProviderStats struct {
	Provider            string           `json:"provider"`
	TotalRequests       int64            `json:"total_requests"`
	SuccessfulRequests  int64            `json:"successful_requests"`
	FailedRequests      int64            `json:"failed_requests"`
	SuccessRate         float64          `json:"success_rate"`
	AverageLatencyMs    float64          `json:"average_latency_ms"`
	TotalAudioProcessed float64          `json:"total_audio_processed_sec"`
	LastUsed            int64            `json:"last_used_timestamp"`
	IsHealthy           bool             `json:"is_healthy"`
	ErrorBreakdown      map[string]int64 `json:"error_breakdown"`
}

// OverallStats aggregates statistics across all providers.
type OverallStats struct {
	TotalProviders       int                      `json:"total_providers"`
	ActiveProviders      int                      `json:"active_providers"`
	TotalRequests        int64                    `json:"total_requests"`
	SuccessfulRequests   int64                    `json:"successful_requests"`
	OverallSuccessRate   float64                  `json:"overall_success_rate"`
	FastestProvider      string                   `json:"fastest_provider"`
	MostReliableProvider string                   `json:"most_reliable_provider"`
	ProviderStats        map[string]ProviderStats `json:"provider_stats"`
}
