package provider

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"rapidscribe/internal/app/api"
)

// SimpleProviderTranscriber resolves one provider from the configuration file
// and exposes it through the plain Transcriber interface. It is the CLI's
// composition path; the HTTP API goes through the orchestrator instead.
type SimpleProviderTranscriber struct {
	provider TranscriptionProvider
	config   *ProviderConfiguration
}

// NewSimpleProviderTranscriber builds a transcriber from providers.yaml.
// Config path priority: ./providers.yaml, then ~/.rapidscribe/providers.yaml.
// Provider priority: runtime override, then the configured default.
func NewSimpleProviderTranscriber() api.Transcriber {
	var configPath string
	if _, err := os.Stat("providers.yaml"); err == nil {
		configPath = "providers.yaml"
	} else {
		configPath = filepath.Join(os.Getenv("HOME"), ".rapidscribe", "providers.yaml")
	}

	configManager := NewConfigManager(configPath)
	config, err := configManager.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load provider configuration from %s: %v", configPath, err)
	}

	runtimeCfg := GetRuntimeConfig()
	var providerName string
	if runtimeCfg != nil && runtimeCfg.ProviderName != "" {
		providerName = runtimeCfg.ProviderName
	} else {
		providerName = config.DefaultProvider
		if providerName == "" {
			providerName = "openai"
		}
	}

	providerConfig, exists := config.Providers[providerName]
	if !exists {
		log.Fatalf("Provider '%s' not found in configuration", providerName)
	}

	factory := NewProviderFactory()
	provider, err := factory.CreateProvider(providerConfig.Type, CreatorSettings(providerConfig))
	if err != nil {
		log.Fatalf("Failed to create provider '%s': %v", providerName, err)
	}

	log.Printf("Using provider: %s (%s)", providerName, providerConfig.Type)

	return &SimpleProviderTranscriber{
		provider: provider,
		config:   config,
	}
}

// CreatorSettings flattens a ProviderConfig into the settings map provider
// creators consume. Auth values override settings keys of the same name.
func CreatorSettings(pc ProviderConfig) map[string]interface{} {
	settings := make(map[string]interface{}, len(pc.Settings)+2)
	for k, v := range pc.Settings {
		settings[k] = v
	}
	if pc.Auth.APIKey != "" {
		settings["api_key"] = pc.Auth.APIKey
	}
	if pc.Auth.BaseURL != "" {
		settings["base_url"] = pc.Auth.BaseURL
	}
	if pc.Performance.TimeoutSec > 0 {
		settings["timeout_sec"] = pc.Performance.TimeoutSec
	}
	return settings
}

// Transcript implements the Transcriber interface.
func (t *SimpleProviderTranscriber) Transcript(inputFilePath string) (string, error) {
	if t.provider == nil {
		return "", fmt.Errorf("provider not initialized")
	}

	timeout := 5 * time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	request := &TranscriptionRequest{
		InputFilePath: inputFilePath,
	}

	if providerConfig, exists := t.config.Providers[t.config.DefaultProvider]; exists {
		if lang, ok := providerConfig.Settings["language"].(string); ok {
			request.Language = lang
		}
		if p, ok := providerConfig.Settings["prompt"].(string); ok {
			request.Prompt = p
		}
	}

	response, err := t.provider.TranscriptWithOptions(ctx, request)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	return response.Text, nil
}
