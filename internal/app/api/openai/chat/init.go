package chat

import (
	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/config"
)

func init() {
	provider.RegisterChatProvider("openai_chat", createProvider)
}

// createProvider builds the chat provider from a flat settings map, falling
// back to the environment defaults for anything missing.
func createProvider(settings map[string]interface{}) (provider.ChatProvider, error) {
	env := config.LoadSettings()

	cfg := Config{
		APIKey:  env.APIKey,
		BaseURL: env.BaseURL,
		Model:   env.DefaultModel,
	}

	if apiKey, ok := settings["api_key"].(string); ok && apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL, ok := settings["base_url"].(string); ok && baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model, ok := settings["model"].(string); ok && model != "" {
		cfg.Model = model
	}

	return New(cfg), nil
}
