package elevenlabs

import (
	"fmt"
	"time"

	"rapidscribe/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("elevenlabs", createProvider)
}

// createProvider builds the ElevenLabs provider from a flat settings map.
// api_key is the one required key; everything else has a default.
func createProvider(settings map[string]interface{}) (provider.TranscriptionProvider, error) {
	config := Config{}

	if apiKey, ok := settings["api_key"].(string); ok && apiKey != "" {
		config.APIKey = apiKey
	} else {
		return nil, fmt.Errorf("elevenlabs provider requires 'api_key' setting")
	}

	if baseURL, ok := settings["base_url"].(string); ok {
		config.BaseURL = baseURL
	}
	if model, ok := settings["model"].(string); ok {
		config.Model = model
	}
	if language, ok := settings["language"].(string); ok {
		config.Language = language
	}
	if diarize, ok := settings["diarize"].(bool); ok {
		config.Diarize = diarize
	}
	if timeoutSec, ok := settings["timeout_sec"].(int); ok && timeoutSec > 0 {
		config.Timeout = time.Duration(timeoutSec) * time.Second
	} else if timeoutSec, ok := settings["timeout_sec"].(float64); ok && timeoutSec > 0 {
		config.Timeout = time.Duration(timeoutSec) * time.Second
	}

	return New(config), nil
}
