package provider

import (
	"fmt"
)

// DefaultProviderFactory implements ProviderFactory over the creator registry.
type DefaultProviderFactory struct{}

// NewProviderFactory creates a new provider factory.
func NewProviderFactory() *DefaultProviderFactory {
	return &DefaultProviderFactory{}
}

// CreateProvider creates a transcription provider of the given type.
func (f *DefaultProviderFactory) CreateProvider(providerType string, config map[string]interface{}) (TranscriptionProvider, error) {
	creator, err := GetProviderCreator(providerType)
	if err != nil {
		return nil, fmt.Errorf("provider type '%s' not registered: %w", providerType, err)
	}
	return creator(config)
}

// CreateChatProvider creates a chat provider of the given type.
func (f *DefaultProviderFactory) CreateChatProvider(providerType string, config map[string]interface{}) (ChatProvider, error) {
	creator, err := GetChatCreator(providerType)
	if err != nil {
		return nil, fmt.Errorf("chat provider type '%s' not registered: %w", providerType, err)
	}
	return creator(config)
}

// GetAvailableProviders returns registered transcription provider types.
func (f *DefaultProviderFactory) GetAvailableProviders() []string {
	return ListRegisteredProviders()
}

// GetProviderInfo returns provider information without creating an instance.
func (f *DefaultProviderFactory) GetProviderInfo(providerType string) (ProviderInfo, error) {
	switch providerType {
	case "openai":
		return openAIInfo(), nil
	case "whisper_server":
		return whisperServerInfo(), nil
	case "whisper_cpp":
		return whisperCppInfo(), nil
	case "elevenlabs":
		return elevenLabsInfo(), nil
	case "openai_chat":
		return openAIChatInfo(), nil
	case "gemini":
		return geminiInfo(), nil
	default:
		return ProviderInfo{}, fmt.Errorf("unknown provider type: %s", providerType)
	}
}

func openAIInfo() ProviderInfo {
	return ProviderInfo{
		Name:        "openai",
		DisplayName: "OpenAI-Compatible Whisper API",
		Kind:        KindSpeechToText,
		Type:        ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []AudioFormat{
			FormatMP3,
			FormatM4A,
			FormatWAV,
			FormatWEBM,
		},
		MaxFileSizeMB:             25,
		SupportsTimestamps:        true,
		SupportsWordLevel:         true,
		SupportsLanguageDetection: true,
		RequiresInternet:          true,
		RequiresAPIKey:            true,
		DefaultModel:              "whisper-1",
		AvailableModels:           []string{"whisper-1"},
	}
}

func whisperServerInfo() ProviderInfo {
	return ProviderInfo{
		Name:        "whisper_server",
		DisplayName: "Whisper Server (HTTP API)",
		Kind:        KindSpeechToText,
		Type:        ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []AudioFormat{
			FormatWAV,
			FormatMP3,
			FormatM4A,
			FormatFLAC,
			FormatOGG,
			FormatWEBM,
		},
		MaxFileSizeMB:             100,
		SupportsTimestamps:        true,
		SupportsWordLevel:         true,
		SupportsLanguageDetection: true,
		RequiresInternet:          true,
		RequiresAPIKey:            false,
		DefaultModel:              "whisper-server",
		AvailableModels:           []string{"whisper-server"},
	}
}

func whisperCppInfo() ProviderInfo {
	return ProviderInfo{
		Name:        "whisper_cpp",
		DisplayName: "Whisper.cpp (Local Binary)",
		Kind:        KindSpeechToText,
		Type:        ProviderTypeLocal,
		Version:     "1.0.0",
		SupportedFormats: []AudioFormat{
			FormatWAV,
			FormatMP3,
			FormatM4A,
		},
		SupportsLanguageDetection: true,
		RequiresInternet:          false,
		RequiresAPIKey:            false,
		DefaultModel:              "ggml-base.bin",
		AvailableModels: []string{
			"ggml-tiny.bin", "ggml-base.bin", "ggml-small.bin",
			"ggml-medium.bin", "ggml-large-v3.bin",
		},
	}
}

func elevenLabsInfo() ProviderInfo {
	return ProviderInfo{
		Name:        "elevenlabs",
		DisplayName: "ElevenLabs Scribe",
		Kind:        KindSpeechToText,
		Type:        ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []AudioFormat{
			FormatMP3,
			FormatWAV,
			FormatM4A,
			FormatFLAC,
			FormatOGG,
			FormatWEBM,
		},
		MaxFileSizeMB:             1024,
		SupportsTimestamps:        true,
		SupportsWordLevel:         true,
		SupportsLanguageDetection: true,
		RequiresInternet:          true,
		RequiresAPIKey:            true,
		DefaultModel:              "scribe_v1",
		AvailableModels:           []string{"scribe_v1", "scribe_v1_experimental"},
	}
}

func openAIChatInfo() ProviderInfo {
	return ProviderInfo{
		Name:             "openai_chat",
		DisplayName:      "OpenAI-Compatible Chat API",
		Kind:             KindChat,
		Type:             ProviderTypeRemote,
		Version:          "1.0.0",
		RequiresInternet: true,
		RequiresAPIKey:   true,
		DefaultModel:     "ai/gemma3n",
	}
}

func geminiInfo() ProviderInfo {
	return ProviderInfo{
		Name:             "gemini",
		DisplayName:      "Google Gemini",
		Kind:             KindChat,
		Type:             ProviderTypeRemote,
		Version:          "1.0.0",
		RequiresInternet: true,
		RequiresAPIKey:   true,
		DefaultModel:     "gemini-2.0-flash",
		AvailableModels:  []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
	}
}
