package provider

import (
	"time"
)

// OrchestratorConfig defines provider selection and retry rules.
type OrchestratorConfig struct {
	// FallbackChain is the order of providers to try when one fails.
	FallbackChain []string `yaml:"fallback_chain" json:"fallback_chain"`

	// RouterRules routes requests to a preferred provider by characteristics.
	RouterRules RouterRules `yaml:"router_rules" json:"router_rules"`

	// HealthCheckInterval bounds how stale a cached health result may be.
	HealthCheckInterval time.Duration `yaml:"health_check_interval" json:"health_check_interval"`

	// MaxRetries is per provider, before moving down the fallback chain.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// RetryDelay is the pause between retry attempts.
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// RouterRules routes requests by request characteristics.
type RouterRules struct {
	// ByLanguage maps a language code to the preferred provider name.
	ByLanguage map[string]string `yaml:"by_language" json:"by_language"`

	// ByFormat maps an audio format to the preferred provider name.
	ByFormat map[string]string `yaml:"by_format" json:"by_format"`
}

// DefaultOrchestratorConfig returns the default orchestration rules: the
// OpenAI-compatible endpoint first, a self-hosted whisper server as fallback.
func DefaultOrchestratorConfig() *OrchestratorConfig {
	return &OrchestratorConfig{
		FallbackChain:       []string{"openai", "whisper_server"},
		HealthCheckInterval: 30 * time.Second,
		MaxRetries:          2,
		RetryDelay:          2 * time.Second,
	}
}
