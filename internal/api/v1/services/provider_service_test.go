package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "rapidscribe/internal/api/errors"
	"rapidscribe/internal/api/v1/services"
	"rapidscribe/internal/app/api/provider"
)

type stubProvider struct {
	name      string
	healthErr error
}

func (p *stubProvider) Transcript(inputFilePath string) (string, error) {
	return "stub text", nil
}

func (p *stubProvider) TranscriptWithOptions(_ context.Context, _ *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	return &provider.TranscriptionResponse{Text: "stub text"}, nil
}

func (p *stubProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        p.name,
		DisplayName: "Stub " + p.name,
		Kind:        provider.KindSpeechToText,
		Type:        provider.ProviderTypeRemote,
	}
}

func (p *stubProvider) ValidateConfiguration() error { return nil }

func (p *stubProvider) HealthCheck(_ context.Context) error { return p.healthErr }

func newProviderService(t *testing.T) (*services.ProviderServiceImpl, *provider.DefaultProviderRegistry) {
	t.Helper()

	registry := provider.NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("openai", &stubProvider{name: "openai"}))
	require.NoError(t, registry.RegisterProvider("whisper_server", &stubProvider{
		name:      "whisper_server",
		healthErr: errors.New("connection refused"),
	}))
	require.NoError(t, registry.SetDefaultProvider("openai"))

	return services.NewProviderService(registry), registry
}

func TestListProvidersReportsHealthAndDefault(t *testing.T) {
	svc, _ := newProviderService(t)

	providers, err := svc.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)

	byID := make(map[string]int)
	for i, p := range providers {
		byID[p.ID] = i
	}

	openai := providers[byID["openai"]]
	assert.True(t, openai.IsDefault)
	assert.True(t, openai.Available)
	assert.Equal(t, "healthy", openai.HealthStatus)

	whisper := providers[byID["whisper_server"]]
	assert.False(t, whisper.IsDefault)
	assert.False(t, whisper.Available)
	assert.Equal(t, "unhealthy", whisper.HealthStatus)
}

func TestGetProviderUnknown(t *testing.T) {
	svc, _ := newProviderService(t)

	_, err := svc.GetProvider(context.Background(), "nope")

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindNotFound, apiErr.Kind)
}

func TestGetProviderStatusTimesHealthCheck(t *testing.T) {
	svc, _ := newProviderService(t)

	healthy, err := svc.GetProviderStatus(context.Background(), "openai")
	require.NoError(t, err)
	assert.Equal(t, "healthy", healthy.Status)
	assert.Empty(t, healthy.ErrorMessage)
	assert.False(t, healthy.CheckedAt.IsZero())

	unhealthy, err := svc.GetProviderStatus(context.Background(), "whisper_server")
	require.NoError(t, err)
	assert.Equal(t, "unhealthy", unhealthy.Status)
	assert.Equal(t, "connection refused", unhealthy.ErrorMessage)
}
