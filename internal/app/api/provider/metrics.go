package provider

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rapidscribe_provider_requests_total",
		Help: "Provider calls by provider name and outcome.",
	}, []string{"provider", "outcome"})

	providerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rapidscribe_provider_errors_total",
		Help: "Provider failures by provider name and error type.",
	}, []string{"provider", "error_type"})

	providerLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rapidscribe_provider_latency_seconds",
		Help:    "Provider call latency.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"provider"})

	providerAudioSeconds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rapidscribe_provider_audio_seconds_total",
		Help: "Seconds of audio processed per provider.",
	}, []string{"provider"})
)

// DefaultProviderMetrics implements ProviderMetrics. It keeps an in-memory
// view for the stats API and mirrors everything into prometheus.
type DefaultProviderMetrics struct {
	mu            sync.RWMutex
	providerStats map[string]*ProviderStats
}

// NewProviderMetrics creates a new provider metrics instance.
func NewProviderMetrics() *DefaultProviderMetrics {
	return &DefaultProviderMetrics{
		providerStats: make(map[string]*ProviderStats),
	}
}

// RecordSuccess records a successful provider call.
func (m *DefaultProviderMetrics) RecordSuccess(provider string, latencyMs int64, audioLengthSec float64) {
	providerRequestsTotal.WithLabelValues(provider, "success").Inc()
	providerLatencySeconds.WithLabelValues(provider).Observe(float64(latencyMs) / 1000)
	if audioLengthSec > 0 {
		providerAudioSeconds.WithLabelValues(provider).Add(audioLengthSec)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreateStats(provider)
	stats.TotalRequests++
	stats.SuccessfulRequests++
	stats.TotalAudioProcessed += audioLengthSec
	stats.LastUsed = time.Now().Unix()
	stats.IsHealthy = true

	// Weighted moving average favoring recent calls.
	if stats.AverageLatencyMs == 0 {
		stats.AverageLatencyMs = float64(latencyMs)
	} else {
		stats.AverageLatencyMs = (stats.AverageLatencyMs * 0.8) + (float64(latencyMs) * 0.2)
	}

	stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)
}

// RecordFailure records a failed provider call.
func (m *DefaultProviderMetrics) RecordFailure(provider string, errorType string) {
	providerRequestsTotal.WithLabelValues(provider, "failure").Inc()
	providerErrorsTotal.WithLabelValues(provider, errorType).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.getOrCreateStats(provider)
	stats.TotalRequests++
	stats.FailedRequests++
	stats.LastUsed = time.Now().Unix()

	if stats.ErrorBreakdown == nil {
		stats.ErrorBreakdown = make(map[string]int64)
	}
	stats.ErrorBreakdown[errorType]++

	stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)

	// A provider with a sustained failure rate over half is marked unhealthy.
	if stats.TotalRequests >= 10 && stats.SuccessRate < 0.5 {
		stats.IsHealthy = false
	}
}

// GetProviderMetrics returns a copy of the metrics for one provider.
func (m *DefaultProviderMetrics) GetProviderMetrics(provider string) ProviderStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, exists := m.providerStats[provider]
	if !exists {
		return ProviderStats{Provider: provider}
	}
	return copyStats(stats)
}

// GetOverallMetrics aggregates metrics across all providers.
func (m *DefaultProviderMetrics) GetOverallMetrics() OverallStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var totalRequests, successfulRequests int64
	var fastestProvider, mostReliableProvider string
	var fastestLatency, highestReliability float64
	activeProviders := 0

	providerStats := make(map[string]ProviderStats, len(m.providerStats))

	for name, stats := range m.providerStats {
		totalRequests += stats.TotalRequests
		successfulRequests += stats.SuccessfulRequests

		providerStats[name] = copyStats(stats)

		if stats.AverageLatencyMs > 0 && (fastestLatency == 0 || stats.AverageLatencyMs < fastestLatency) {
			fastestLatency = stats.AverageLatencyMs
			fastestProvider = name
		}

		if stats.TotalRequests >= 5 && stats.SuccessRate > highestReliability {
			highestReliability = stats.SuccessRate
			mostReliableProvider = name
		}

		// Active means used within the last hour.
		if stats.LastUsed > 0 && time.Now().Unix()-stats.LastUsed < 3600 {
			activeProviders++
		}
	}

	var overallSuccessRate float64
	if totalRequests > 0 {
		overallSuccessRate = float64(successfulRequests) / float64(totalRequests)
	}

	return OverallStats{
		TotalProviders:       len(m.providerStats),
		ActiveProviders:      activeProviders,
		TotalRequests:        totalRequests,
		SuccessfulRequests:   successfulRequests,
		OverallSuccessRate:   overallSuccessRate,
		FastestProvider:      fastestProvider,
		MostReliableProvider: mostReliableProvider,
		ProviderStats:        providerStats,
	}
}

// ResetStats clears the in-memory view. Prometheus counters are cumulative
// and are left alone.
func (m *DefaultProviderMetrics) ResetStats() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providerStats = make(map[string]*ProviderStats)
}

// getOrCreateStats must be called with the write lock held.
func (m *DefaultProviderMetrics) getOrCreateStats(provider string) *ProviderStats {
	stats, exists := m.providerStats[provider]
	if !exists {
		stats = &ProviderStats{
			Provider:       provider,
			ErrorBreakdown: make(map[string]int64),
		}
		m.providerStats[provider] = stats
	}
	return stats
}

func copyStats(stats *ProviderStats) ProviderStats {
	out := *stats
	if stats.ErrorBreakdown != nil {
		out.ErrorBreakdown = make(map[string]int64, len(stats.ErrorBreakdown))
		for k, v := range stats.ErrorBreakdown {
			out.ErrorBreakdown[k] = v
		}
	}
	return out
}
