package whisper_server

import (
	"fmt"
	"time"

	"rapidscribe/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("whisper_server", createProvider)
}

// createProvider builds the whisper-server provider from a flat settings map.
// base_url is the one required key; everything else has a default.
func createProvider(settings map[string]interface{}) (provider.TranscriptionProvider, error) {
	config := Config{}

	if baseURL, ok := settings["base_url"].(string); ok && baseURL != "" {
		config.BaseURL = baseURL
	} else {
		return nil, fmt.Errorf("whisper_server provider requires 'base_url' setting")
	}

	if inferencePath, ok := settings["inference_path"].(string); ok {
		config.InferencePath = inferencePath
	}
	if loadPath, ok := settings["load_path"].(string); ok {
		config.LoadPath = loadPath
	}
	if timeoutSec, ok := settings["timeout_sec"].(int); ok && timeoutSec > 0 {
		config.Timeout = time.Duration(timeoutSec) * time.Second
	} else if timeoutSec, ok := settings["timeout_sec"].(float64); ok && timeoutSec > 0 {
		config.Timeout = time.Duration(timeoutSec) * time.Second
	}
	if language, ok := settings["language"].(string); ok {
		config.Language = language
	}
	if responseFormat, ok := settings["response_format"].(string); ok {
		config.ResponseFormat = responseFormat
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		config.Temperature = temperature
	}
	if translate, ok := settings["translate"].(bool); ok {
		config.Translate = translate
	}
	if noTimestamps, ok := settings["no_timestamps"].(bool); ok {
		config.NoTimestamps = noTimestamps
	}
	if headers, ok := settings["custom_headers"].(map[string]interface{}); ok {
		config.CustomHeaders = make(map[string]string, len(headers))
		for k, v := range headers {
			if str, ok := v.(string); ok {
				config.CustomHeaders[k] = str
			}
		}
	}

	return New(config), nil
}
