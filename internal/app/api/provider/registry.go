package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultProviderRegistry implements ProviderRegistry.
type DefaultProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]TranscriptionProvider
	default_  string
}

// NewProviderRegistry creates an empty transcription provider registry.
func NewProviderRegistry() *DefaultProviderRegistry {
	return &DefaultProviderRegistry{
		providers: make(map[string]TranscriptionProvider),
	}
}

// RegisterProvider adds a provider. The first registered provider becomes the
// default.
func (r *DefaultProviderRegistry) RegisterProvider(name string, provider TranscriptionProvider) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider '%s' already registered", name)
	}

	if err := provider.ValidateConfiguration(); err != nil {
		return fmt.Errorf("provider validation failed: %w", err)
	}

	r.providers[name] = provider

	if r.default_ == "" {
		r.default_ = name
	}

	return nil
}

// GetProvider retrieves a provider by name.
func (r *DefaultProviderRegistry) GetProvider(name string) (TranscriptionProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider '%s' not found", name)
	}

	return provider, nil
}

// ListProviders returns the names of all registered providers.
func (r *DefaultProviderRegistry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// GetDefaultProvider returns the default provider.
func (r *DefaultProviderRegistry) GetDefaultProvider() (TranscriptionProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no default provider set")
	}

	provider, exists := r.providers[r.default_]
	if !exists {
		return nil, fmt.Errorf("default provider '%s' not found", r.default_)
	}

	return provider, nil
}

// SetDefaultProvider sets the default provider.
func (r *DefaultProviderRegistry) SetDefaultProvider(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("provider '%s' not found", name)
	}

	r.default_ = name
	return nil
}

// HealthCheckAll checks every registered provider concurrently.
func (r *DefaultProviderRegistry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	providers := make(map[string]TranscriptionProvider, len(r.providers))
	for name, provider := range r.providers {
		providers[name] = provider
	}
	r.mu.RUnlock()

	results := make(map[string]error)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, provider := range providers {
		wg.Add(1)
		go func(name string, provider TranscriptionProvider) {
			defer wg.Done()

			err := provider.HealthCheck(ctx)

			mu.Lock()
			results[name] = err
			mu.Unlock()
		}(name, provider)
	}

	wg.Wait()
	return results
}

// DefaultChatRegistry implements ChatRegistry with the same locking scheme as
// the transcription registry.
type DefaultChatRegistry struct {
	mu        sync.RWMutex
	providers map[string]ChatProvider
	default_  string
}

// NewChatRegistry creates an empty chat provider registry.
func NewChatRegistry() *DefaultChatRegistry {
	return &DefaultChatRegistry{
		providers: make(map[string]ChatProvider),
	}
}

// RegisterProvider adds a chat provider. The first registered becomes default.
func (r *DefaultChatRegistry) RegisterProvider(name string, provider ChatProvider) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("chat provider '%s' already registered", name)
	}

	if err := provider.ValidateConfiguration(); err != nil {
		return fmt.Errorf("chat provider validation failed: %w", err)
	}

	r.providers[name] = provider

	if r.default_ == "" {
		r.default_ = name
	}

	return nil
}

// GetProvider retrieves a chat provider by name.
func (r *DefaultChatRegistry) GetProvider(name string) (ChatProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("chat provider '%s' not found", name)
	}

	return provider, nil
}

// ListProviders returns the names of all registered chat providers.
func (r *DefaultChatRegistry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// GetDefaultProvider returns the default chat provider.
func (r *DefaultChatRegistry) GetDefaultProvider() (ChatProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no default chat provider set")
	}

	provider, exists := r.providers[r.default_]
	if !exists {
		return nil, fmt.Errorf("default chat provider '%s' not found", r.default_)
	}

	return provider, nil
}

// SetDefaultProvider sets the default chat provider.
func (r *DefaultChatRegistry) SetDefaultProvider(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("chat provider '%s' not found", name)
	}

	r.default_ = name
	return nil
}

// DefaultTranscriptionOrchestrator implements TranscriptionOrchestrator.
type DefaultTranscriptionOrchestrator struct {
	registry ProviderRegistry
	metrics  ProviderMetrics
	config   OrchestratorConfig
	mu       sync.RWMutex
	stats    OrchestratorStats
}

// NewTranscriptionOrchestrator creates a new transcription orchestrator.
func NewTranscriptionOrchestrator(registry ProviderRegistry, metrics ProviderMetrics, config OrchestratorConfig) *DefaultTranscriptionOrchestrator {
	return &DefaultTranscriptionOrchestrator{
		registry: registry,
		metrics:  metrics,
		config:   config,
		stats: OrchestratorStats{
			ProviderUsage:    make(map[string]int64),
			ErrorsByProvider: make(map[string]int64),
		},
	}
}

// Transcribe tries recommended providers in order until one succeeds.
func (o *DefaultTranscriptionOrchestrator) Transcribe(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	startTime := time.Now()

	o.mu.Lock()
	o.stats.TotalRequests++
	o.mu.Unlock()

	providers, err := o.RecommendProvider(request)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider recommendations: %w", err)
	}

	var lastErr error
	for _, providerName := range providers {
		provider, err := o.registry.GetProvider(providerName)
		if err != nil {
			lastErr = err
			continue
		}

		response, err := o.tryProvider(ctx, provider, request)
		if err != nil {
			lastErr = err
			o.recordFailure(providerName, "transcription_failed")
			continue
		}

		o.recordSuccess(providerName, time.Since(startTime), response)
		return response, nil
	}

	o.mu.Lock()
	o.stats.FailedRequests++
	o.mu.Unlock()

	return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
}

// TranscribeWithProvider tries the named provider, then the fallback chain.
func (o *DefaultTranscriptionOrchestrator) TranscribeWithProvider(ctx context.Context, providerName string, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	startTime := time.Now()

	o.mu.Lock()
	o.stats.TotalRequests++
	o.mu.Unlock()

	provider, err := o.registry.GetProvider(providerName)
	if err != nil {
		o.recordFailure(providerName, "provider_not_found")
		return nil, fmt.Errorf("failed to get provider '%s': %w", providerName, err)
	}

	response, primaryErr := o.tryProvider(ctx, provider, request)
	if primaryErr == nil {
		o.recordSuccess(providerName, time.Since(startTime), response)
		return response, nil
	}
	o.recordFailure(providerName, "transcription_failed")

	for _, fallbackName := range o.config.FallbackChain {
		if fallbackName == providerName {
			continue
		}

		fallbackProvider, err := o.registry.GetProvider(fallbackName)
		if err != nil {
			continue
		}

		response, err := o.tryProvider(ctx, fallbackProvider, request)
		if err != nil {
			o.recordFailure(fallbackName, "fallback_failed")
			continue
		}

		o.recordSuccess(fallbackName, time.Since(startTime), response)
		return response, nil
	}

	o.mu.Lock()
	o.stats.FailedRequests++
	o.mu.Unlock()

	return nil, fmt.Errorf("provider '%s' and all fallbacks failed: %w", providerName, primaryErr)
}

// tryProvider runs one provider with the configured retry policy.
// Non-retryable TranscriptionErrors short-circuit the retry loop.
func (o *DefaultTranscriptionOrchestrator) tryProvider(ctx context.Context, provider TranscriptionProvider, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= o.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.config.RetryDelay):
			}
		}

		response, err := provider.TranscriptWithOptions(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		var transcriptErr *TranscriptionError
		if errors.As(err, &transcriptErr) && !transcriptErr.Retryable {
			break
		}
	}

	return nil, lastErr
}

// RecommendProvider returns candidates in try-order: the configured fallback
// chain when present, otherwise every registered provider. Language routing
// rules can promote a provider to the front.
func (o *DefaultTranscriptionOrchestrator) RecommendProvider(request *TranscriptionRequest) ([]string, error) {
	var candidates []string
	if len(o.config.FallbackChain) > 0 {
		candidates = append(candidates, o.config.FallbackChain...)
	} else {
		candidates = o.registry.ListProviders()
	}

	if request != nil && request.Language != "" && o.config.RouterRules.ByLanguage != nil {
		if preferred, ok := o.config.RouterRules.ByLanguage[request.Language]; ok {
			candidates = promote(candidates, preferred)
		}
	}

	if len(candidates) == 0 {
		allProviders := o.registry.ListProviders()
		if len(allProviders) == 0 {
			return nil, fmt.Errorf("no providers available")
		}
		candidates = allProviders
	}

	return candidates, nil
}

// GetStats returns a copy of the current orchestrator statistics.
func (o *DefaultTranscriptionOrchestrator) GetStats() OrchestratorStats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := o.stats
	stats.ProviderUsage = make(map[string]int64, len(o.stats.ProviderUsage))
	stats.ErrorsByProvider = make(map[string]int64, len(o.stats.ErrorsByProvider))

	for k, v := range o.stats.ProviderUsage {
		stats.ProviderUsage[k] = v
	}
	for k, v := range o.stats.ErrorsByProvider {
		stats.ErrorsByProvider[k] = v
	}

	return stats
}

func (o *DefaultTranscriptionOrchestrator) recordSuccess(providerName string, latency time.Duration, response *TranscriptionResponse) {
	var audioSec float64
	if response != nil {
		audioSec = response.Duration.Seconds()
	}
	o.metrics.RecordSuccess(providerName, latency.Milliseconds(), audioSec)

	o.mu.Lock()
	o.stats.SuccessfulRequests++
	o.stats.ProviderUsage[providerName]++
	o.mu.Unlock()
}

func (o *DefaultTranscriptionOrchestrator) recordFailure(providerName, errorType string) {
	o.metrics.RecordFailure(providerName, errorType)

	o.mu.Lock()
	o.stats.ErrorsByProvider[providerName]++
	o.mu.Unlock()
}

// promote moves name to the front of candidates, appending it if absent.
func promote(candidates []string, name string) []string {
	out := []string{name}
	for _, c := range candidates {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}
