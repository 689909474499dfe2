package openai

import (
	"sync"

	"github.com/sashabaranov/go-openai"

	"rapidscribe/internal/config"
)

var (
	once      sync.Once
	singleton *openai.Client
)

// GetClient returns the process-wide client for the configured
// OpenAI-compatible endpoint. Settings come from the environment on first
// call; the default base URL is unreachable on purpose, so an unconfigured
// deployment fails on the first request instead of quietly calling the
// wrong endpoint.
func GetClient() *openai.Client {
	once.Do(func() {
		settings := config.LoadSettings()
		singleton = NewClient(settings.BaseURL, settings.APIKey)
	})

	return singleton
}

// NewClient builds a client for any OpenAI-compatible endpoint. An empty
// baseURL keeps the library default (api.openai.com).
func NewClient(baseURL, apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
