package whisper_cpp

import (
	"fmt"
	"time"

	"rapidscribe/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("whisper_cpp", createProvider)
}

// createProvider builds the whisper.cpp provider from a flat settings map.
// binary_path and model_path are required; everything else has a default.
func createProvider(settings map[string]interface{}) (provider.TranscriptionProvider, error) {
	config := Config{}

	if binaryPath, ok := settings["binary_path"].(string); ok && binaryPath != "" {
		config.BinaryPath = binaryPath
	} else {
		return nil, fmt.Errorf("whisper_cpp provider requires 'binary_path' setting")
	}

	if modelPath, ok := settings["model_path"].(string); ok && modelPath != "" {
		config.ModelPath = modelPath
	} else {
		return nil, fmt.Errorf("whisper_cpp provider requires 'model_path' setting")
	}

	if language, ok := settings["language"].(string); ok {
		config.Language = language
	}
	if prompt, ok := settings["prompt"].(string); ok {
		config.Prompt = prompt
	}
	if threads, ok := settings["threads"].(int); ok && threads > 0 {
		config.Threads = threads
	} else if threads, ok := settings["threads"].(float64); ok && threads > 0 {
		config.Threads = int(threads)
	}
	if timeoutSec, ok := settings["timeout_sec"].(int); ok && timeoutSec > 0 {
		config.Timeout = time.Duration(timeoutSec) * time.Second
	} else if timeoutSec, ok := settings["timeout_sec"].(float64); ok && timeoutSec > 0 {
		config.Timeout = time.Duration(timeoutSec) * time.Second
	}

	return New(config), nil
}
