package config

import "time"

// Provider default configuration constants
const (
	// Timeout defaults
	DefaultOpenAITimeout = 60 * time.Second
	DefaultGeminiTimeout = 60 * time.Second
	DefaultHTTPTimeout   = 120 * time.Second

	// Concurrency defaults
	DefaultOpenAIConcurrency = 5
	DefaultGeminiConcurrency = 5
	DefaultHTTPConcurrency   = 2

	// Retry defaults
	DefaultRetries      = 2
	DefaultRetryDelayMs = 1000

	// OpenAI specific
	DefaultOpenAIMaxRetries = 3

	// Model defaults
	DefaultWhisperModel = "whisper-1"
	DefaultGeminiModel  = "gemini-2.0-flash"
)

// ProviderDefaults holds all default configurations for providers
type ProviderDefaults struct {
	Timeout      time.Duration
	Concurrency  int
	Retries      int
	RetryDelayMs int
}

// GetProviderDefaults returns default configuration for a given provider type
func GetProviderDefaults(providerType string) ProviderDefaults {
	switch providerType {
	case "openai":
		return ProviderDefaults{
			Timeout:      DefaultOpenAITimeout,
			Concurrency:  DefaultOpenAIConcurrency,
			Retries:      DefaultOpenAIMaxRetries,
			RetryDelayMs: DefaultRetryDelayMs,
		}
	case "gemini":
		return ProviderDefaults{
			Timeout:      DefaultGeminiTimeout,
			Concurrency:  DefaultGeminiConcurrency,
			Retries:      DefaultRetries,
			RetryDelayMs: DefaultRetryDelayMs,
		}
	case "whisper_server":
		return ProviderDefaults{
			Timeout:      DefaultHTTPTimeout,
			Concurrency:  DefaultHTTPConcurrency,
			Retries:      DefaultRetries,
			RetryDelayMs: DefaultRetryDelayMs,
		}
	default:
		return ProviderDefaults{
			Timeout:      60 * time.Second,
			Concurrency:  1,
			Retries:      2,
			RetryDelayMs: 1000,
		}
	}
}
