package whisper

import (
	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/config"
)

func init() {
	provider.RegisterProvider("openai", createProvider)
}

// createProvider builds the remote Whisper provider from a flat settings map.
// Keys missing from the map fall back to the environment defaults, so the
// provider works without a providers.yaml auth block.
func createProvider(settings map[string]interface{}) (provider.TranscriptionProvider, error) {
	env := config.LoadSettings()

	cfg := Config{
		APIKey:  env.APIKey,
		BaseURL: env.BaseURL,
	}

	if apiKey, ok := settings["api_key"].(string); ok && apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL, ok := settings["base_url"].(string); ok && baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model, ok := settings["model"].(string); ok {
		cfg.Model = model
	}
	if language, ok := settings["language"].(string); ok {
		cfg.Language = language
	}
	if prompt, ok := settings["prompt"].(string); ok {
		cfg.Prompt = prompt
	}
	if responseFormat, ok := settings["response_format"].(string); ok {
		cfg.ResponseFormat = responseFormat
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		cfg.Temperature = float32(temperature)
	}

	return New(cfg), nil
}
