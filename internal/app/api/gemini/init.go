package gemini

import (
	"context"

	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/config"
)

func init() {
	provider.RegisterChatProvider("gemini", createProvider)
}

// createProvider builds the Gemini provider from a flat settings map, with
// GEMINI_API_KEY as the fallback key source.
func createProvider(settings map[string]interface{}) (provider.ChatProvider, error) {
	env := config.LoadSettings()

	cfg := Config{
		APIKey: env.GeminiAPIKey,
	}

	if apiKey, ok := settings["api_key"].(string); ok && apiKey != "" {
		cfg.APIKey = apiKey
	}
	if model, ok := settings["model"].(string); ok && model != "" {
		cfg.Model = model
	}

	return New(context.Background(), cfg)
}
