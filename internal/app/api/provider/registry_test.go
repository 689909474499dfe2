package provider

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a controllable TranscriptionProvider for registry and
// orchestrator tests.
type mockProvider struct {
	name        string
	text        string
	failCount   int32 // fail this many calls before succeeding
	calls       int32
	configErr   error
	healthErr   error
	retryable   bool
	permanently bool // fail every call
}

func (m *mockProvider) Transcript(inputFilePath string) (string, error) {
	resp, err := m.TranscriptWithOptions(context.Background(), &TranscriptionRequest{InputFilePath: inputFilePath})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (m *mockProvider) TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	n := atomic.AddInt32(&m.calls, 1)
	if m.permanently || n <= atomic.LoadInt32(&m.failCount) {
		return nil, &TranscriptionError{
			Code:      "mock_failure",
			Message:   fmt.Sprintf("%s failed", m.name),
			Provider:  m.name,
			Retryable: m.retryable,
		}
	}
	return &TranscriptionResponse{Text: m.text, Duration: 3 * time.Second}, nil
}

func (m *mockProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{Name: m.name, Kind: KindSpeechToText, Type: ProviderTypeRemote}
}

func (m *mockProvider) ValidateConfiguration() error { return m.configErr }

func (m *mockProvider) HealthCheck(ctx context.Context) error { return m.healthErr }

func (m *mockProvider) callCount() int { return int(atomic.LoadInt32(&m.calls)) }

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewProviderRegistry()

	p := &mockProvider{name: "openai", text: "hello"}
	require.NoError(t, registry.RegisterProvider("openai", p))

	got, err := registry.GetProvider("openai")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = registry.GetProvider("missing")
	assert.Error(t, err)
}

func TestRegistryRejectsInvalidRegistrations(t *testing.T) {
	registry := NewProviderRegistry()

	assert.Error(t, registry.RegisterProvider("", &mockProvider{name: "x"}))
	assert.Error(t, registry.RegisterProvider("nil", nil))

	bad := &mockProvider{name: "bad", configErr: fmt.Errorf("missing api key")}
	err := registry.RegisterProvider("bad", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	// Duplicate names are rejected.
	require.NoError(t, registry.RegisterProvider("openai", &mockProvider{name: "openai"}))
	assert.Error(t, registry.RegisterProvider("openai", &mockProvider{name: "openai"}))
}

func TestRegistryDefaultProvider(t *testing.T) {
	registry := NewProviderRegistry()

	_, err := registry.GetDefaultProvider()
	assert.Error(t, err, "empty registry has no default")

	first := &mockProvider{name: "first"}
	second := &mockProvider{name: "second"}
	require.NoError(t, registry.RegisterProvider("first", first))
	require.NoError(t, registry.RegisterProvider("second", second))

	// First registration becomes the default.
	got, err := registry.GetDefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, registry.SetDefaultProvider("second"))
	got, err = registry.GetDefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, second, got)

	assert.Error(t, registry.SetDefaultProvider("missing"))
}

func TestRegistryHealthCheckAll(t *testing.T) {
	registry := NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("healthy", &mockProvider{name: "healthy"}))
	require.NoError(t, registry.RegisterProvider("down", &mockProvider{
		name:      "down",
		healthErr: fmt.Errorf("connection refused"),
	}))

	results := registry.HealthCheckAll(context.Background())
	require.Len(t, results, 2)
	assert.NoError(t, results["healthy"])
	assert.Error(t, results["down"])
}

func TestChatRegistry(t *testing.T) {
	registry := NewChatRegistry()

	_, err := registry.GetDefaultProvider()
	assert.Error(t, err)

	chat := &mockChatProvider{name: "openai_chat", reply: "hi"}
	require.NoError(t, registry.RegisterProvider("openai_chat", chat))

	got, err := registry.GetDefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, chat, got)

	assert.ElementsMatch(t, []string{"openai_chat"}, registry.ListProviders())
}

type mockChatProvider struct {
	name  string
	reply string
	err   error
}

func (m *mockChatProvider) ChatCompletion(ctx context.Context, request *ChatRequest) (*ChatResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &ChatResponse{Text: m.reply}, nil
}

func (m *mockChatProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{Name: m.name, Kind: KindChat}
}

func (m *mockChatProvider) ValidateConfiguration() error { return nil }

func (m *mockChatProvider) HealthCheck(ctx context.Context) error { return nil }

func newTestOrchestrator(registry ProviderRegistry, config OrchestratorConfig) *DefaultTranscriptionOrchestrator {
	return NewTranscriptionOrchestrator(registry, NewProviderMetrics(), config)
}

func TestOrchestratorFallsBackInChainOrder(t *testing.T) {
	registry := NewProviderRegistry()
	primary := &mockProvider{name: "openai", permanently: true, retryable: false}
	fallback := &mockProvider{name: "whisper_server", text: "fallback text"}
	require.NoError(t, registry.RegisterProvider("openai", primary))
	require.NoError(t, registry.RegisterProvider("whisper_server", fallback))

	orch := newTestOrchestrator(registry, OrchestratorConfig{
		FallbackChain: []string{"openai", "whisper_server"},
		MaxRetries:    0,
		RetryDelay:    time.Millisecond,
	})

	resp, err := orch.Transcribe(context.Background(), &TranscriptionRequest{InputFilePath: "a.mp3"})
	require.NoError(t, err)
	assert.Equal(t, "fallback text", resp.Text)
	assert.Equal(t, 1, primary.callCount(), "primary tried exactly once before fallback")

	stats := orch.GetStats()
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.SuccessfulRequests)
	assert.Equal(t, int64(1), stats.ProviderUsage["whisper_server"])
	assert.Equal(t, int64(1), stats.ErrorsByProvider["openai"])
}

func TestOrchestratorRetriesRetryableErrors(t *testing.T) {
	registry := NewProviderRegistry()
	flaky := &mockProvider{name: "openai", text: "recovered", failCount: 2, retryable: true}
	require.NoError(t, registry.RegisterProvider("openai", flaky))

	orch := newTestOrchestrator(registry, OrchestratorConfig{
		FallbackChain: []string{"openai"},
		MaxRetries:    2,
		RetryDelay:    time.Millisecond,
	})

	resp, err := orch.Transcribe(context.Background(), &TranscriptionRequest{InputFilePath: "a.mp3"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Text)
	assert.Equal(t, 3, flaky.callCount(), "two failures then success")
}

func TestOrchestratorDoesNotRetryNonRetryable(t *testing.T) {
	registry := NewProviderRegistry()
	fatal := &mockProvider{name: "openai", permanently: true, retryable: false}
	require.NoError(t, registry.RegisterProvider("openai", fatal))

	orch := newTestOrchestrator(registry, OrchestratorConfig{
		FallbackChain: []string{"openai"},
		MaxRetries:    5,
		RetryDelay:    time.Millisecond,
	})

	_, err := orch.Transcribe(context.Background(), &TranscriptionRequest{InputFilePath: "a.mp3"})
	require.Error(t, err)
	assert.Equal(t, 1, fatal.callCount(), "non-retryable error short-circuits retries")
}

func TestOrchestratorAllProvidersFail(t *testing.T) {
	registry := NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("openai", &mockProvider{name: "openai", permanently: true}))
	require.NoError(t, registry.RegisterProvider("whisper_server", &mockProvider{name: "whisper_server", permanently: true}))

	orch := newTestOrchestrator(registry, OrchestratorConfig{
		FallbackChain: []string{"openai", "whisper_server"},
		MaxRetries:    0,
		RetryDelay:    time.Millisecond,
	})

	_, err := orch.Transcribe(context.Background(), &TranscriptionRequest{InputFilePath: "a.mp3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")

	stats := orch.GetStats()
	assert.Equal(t, int64(1), stats.FailedRequests)
}

func TestRecommendProviderLanguageRouting(t *testing.T) {
	registry := NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("openai", &mockProvider{name: "openai"}))
	require.NoError(t, registry.RegisterProvider("whisper_server", &mockProvider{name: "whisper_server"}))

	orch := newTestOrchestrator(registry, OrchestratorConfig{
		FallbackChain: []string{"openai", "whisper_server"},
		RouterRules: RouterRules{
			ByLanguage: map[string]string{"zh": "whisper_server"},
		},
	})

	candidates, err := orch.RecommendProvider(&TranscriptionRequest{Language: "zh"})
	require.NoError(t, err)
	assert.Equal(t, []string{"whisper_server", "openai"}, candidates)

	candidates, err = orch.RecommendProvider(&TranscriptionRequest{Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"openai", "whisper_server"}, candidates)
}

func TestTranscriberAdapter(t *testing.T) {
	registry := NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("openai", &mockProvider{name: "openai", text: "adapted"}))

	orch := newTestOrchestrator(registry, OrchestratorConfig{FallbackChain: []string{"openai"}})
	adapter := NewTranscriberAdapter(orch)

	text, err := adapter.Transcript("a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "adapted", text)
}
