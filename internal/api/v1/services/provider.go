package services

import (
	"context"
	"time"

	apierrors "rapidscribe/internal/api/errors"
	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/app/api/provider"
)

// ProviderServiceImpl reports on the transcription provider registry.
type ProviderServiceImpl struct {
	registry provider.ProviderRegistry
}

// NewProviderService creates the provider service.
func NewProviderService(registry provider.ProviderRegistry) *ProviderServiceImpl {
	return &ProviderServiceImpl{registry: registry}
}

// ListProviders lists all registered providers with their health.
func (s *ProviderServiceImpl) ListProviders(ctx context.Context) ([]dto.ProviderResponse, error) {
	defaultName := s.defaultProviderName()

	names := s.registry.ListProviders()
	responses := make([]dto.ProviderResponse, 0, len(names))
	for _, name := range names {
		p, err := s.registry.GetProvider(name)
		if err != nil {
			continue
		}

		info := p.GetProviderInfo()
		responses = append(responses,
			dto.ToProviderResponse(info, s.healthStatus(ctx, p), defaultName == name))
	}

	return responses, nil
}

// GetProvider returns one provider's details.
func (s *ProviderServiceImpl) GetProvider(ctx context.Context, id string) (*dto.ProviderResponse, error) {
	p, err := s.registry.GetProvider(id)
	if err != nil {
		return nil, apierrors.NewNotFoundError("provider")
	}

	info := p.GetProviderInfo()
	resp := dto.ToProviderResponse(info, s.healthStatus(ctx, p), s.defaultProviderName() == id)
	return &resp, nil
}

// GetProviderStatus runs a timed health check against one provider.
func (s *ProviderServiceImpl) GetProviderStatus(ctx context.Context, id string) (*dto.ProviderStatusResponse, error) {
	p, err := s.registry.GetProvider(id)
	if err != nil {
		return nil, apierrors.NewNotFoundError("provider")
	}

	info := p.GetProviderInfo()

	start := time.Now()
	healthErr := p.HealthCheck(ctx)
	responseTime := time.Since(start).Milliseconds()

	status := "healthy"
	errorMessage := ""
	if healthErr != nil {
		status = "unhealthy"
		errorMessage = healthErr.Error()
	}

	return &dto.ProviderStatusResponse{
		ID:           id,
		Name:         info.DisplayName,
		Status:       status,
		ResponseTime: responseTime,
		ErrorMessage: errorMessage,
		CheckedAt:    time.Now(),
	}, nil
}

func (s *ProviderServiceImpl) healthStatus(ctx context.Context, p provider.TranscriptionProvider) string {
	if err := p.HealthCheck(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

func (s *ProviderServiceImpl) defaultProviderName() string {
	defaultProvider, err := s.registry.GetDefaultProvider()
	if err != nil || defaultProvider == nil {
		return ""
	}
	return defaultProvider.GetProviderInfo().Name
}
