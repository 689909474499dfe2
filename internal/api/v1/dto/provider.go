package dto

import (
	"time"

	"rapidscribe/internal/app/api/provider"
)

// ProviderResponse describes one registered provider.
type ProviderResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Kind             string   `json:"kind"`
	Type             string   `json:"type"`
	Available        bool     `json:"available"`
	HealthStatus     string   `json:"health_status"`
	SupportedFormats []string `json:"supported_formats,omitempty"`
	RequiresAPIKey   bool     `json:"requires_api_key"`
	IsDefault        bool     `json:"is_default"`
}

// ProviderStatusResponse is the result of an on-demand health check.
type ProviderStatusResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ResponseTime int64     `json:"response_time_ms"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}

// ToProviderResponse converts provider info to its API shape.
func ToProviderResponse(info provider.ProviderInfo, healthStatus string, isDefault bool) ProviderResponse {
	formats := make([]string, len(info.SupportedFormats))
	for i, f := range info.SupportedFormats {
		formats[i] = string(f)
	}

	return ProviderResponse{
		ID:               info.Name,
		Name:             info.DisplayName,
		Kind:             string(info.Kind),
		Type:             string(info.Type),
		Available:        healthStatus == "healthy",
		HealthStatus:     healthStatus,
		SupportedFormats: formats,
		RequiresAPIKey:   info.RequiresAPIKey,
		IsDefault:        isDefault,
	}
}
