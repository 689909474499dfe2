package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfiguration is the full on-disk provider configuration.
type ProviderConfiguration struct {
	// DefaultProvider is used when a request names none.
	DefaultProvider string `yaml:"default_provider"`

	// DefaultChatProvider is used for assistant replies when a request
	// names none.
	DefaultChatProvider string `yaml:"default_chat_provider"`

	// Providers holds per-provider configuration keyed by name.
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Orchestrator holds selection and retry rules.
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
}

// ProviderConfig configures a single provider.
type ProviderConfig struct {
	// Type selects the creator: openai, whisper_server, whisper_cpp,
	// elevenlabs, openai_chat, gemini.
	Type string `yaml:"type"`

	Enabled bool `yaml:"enabled"`

	// Settings are passed to the provider creator as-is.
	Settings map[string]interface{} `yaml:"settings"`

	// Auth values support ${ENV_VAR} references.
	Auth AuthConfig `yaml:"auth,omitempty"`

	Performance   PerformanceConfig   `yaml:"performance,omitempty"`
	ErrorHandling ErrorHandlingConfig `yaml:"error_handling,omitempty"`
}

// AuthConfig is provider authentication.
type AuthConfig struct {
	APIKey  string            `yaml:"api_key,omitempty"`
	BaseURL string            `yaml:"base_url,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// PerformanceConfig bounds provider resource usage.
type PerformanceConfig struct {
	TimeoutSec     int `yaml:"timeout_sec,omitempty"`
	MaxConcurrency int `yaml:"max_concurrency,omitempty"`
}

// ErrorHandlingConfig shapes per-provider retries.
type ErrorHandlingConfig struct {
	MaxRetries   int `yaml:"max_retries,omitempty"`
	RetryDelayMs int `yaml:"retry_delay_ms,omitempty"`
}

// ConfigManager loads and persists the provider configuration file.
type ConfigManager struct {
	configPath string
	config     *ProviderConfiguration
}

// NewConfigManager creates a configuration manager for the given path.
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// LoadConfig reads the YAML file, writing a default one when missing.
// Environment variable references in auth values are expanded after parsing.
func (cm *ConfigManager) LoadConfig() (*ProviderConfiguration, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		defaultConfig := cm.createDefaultConfig()
		if err := cm.SaveConfig(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cm.config = defaultConfig
		return defaultConfig, nil
	}

	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ProviderConfiguration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cm.expandEnvironmentVariables(&config)

	if err := cm.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = &config
	return &config, nil
}

// SaveConfig writes the configuration back to disk.
func (cm *ConfigManager) SaveConfig(config *ProviderConfiguration) error {
	dir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cm.config = config
	return nil
}

// GetConfig returns the last loaded configuration.
func (cm *ConfigManager) GetConfig() *ProviderConfiguration {
	return cm.config
}

// UpdateProviderConfig replaces one provider's configuration and persists.
func (cm *ConfigManager) UpdateProviderConfig(providerName string, config ProviderConfig) error {
	if cm.config == nil {
		return fmt.Errorf("configuration not loaded")
	}

	if cm.config.Providers == nil {
		cm.config.Providers = make(map[string]ProviderConfig)
	}

	cm.config.Providers[providerName] = config
	return cm.SaveConfig(cm.config)
}

func (cm *ConfigManager) createDefaultConfig() *ProviderConfiguration {
	return &ProviderConfiguration{
		DefaultProvider:     "openai",
		DefaultChatProvider: "openai_chat",
		Providers: map[string]ProviderConfig{
			"openai": {
				Type:    "openai",
				Enabled: true,
				Auth: AuthConfig{
					APIKey:  "${OPENAI_API_KEY}",
					BaseURL: "${BASE_URL}",
				},
				Settings: map[string]interface{}{
					"model":           "whisper-1",
					"response_format": "text",
				},
				Performance: PerformanceConfig{
					TimeoutSec:     60,
					MaxConcurrency: 5,
				},
				ErrorHandling: ErrorHandlingConfig{
					MaxRetries:   3,
					RetryDelayMs: 2000,
				},
			},
			"whisper_server": {
				Type:    "whisper_server",
				Enabled: false,
				Auth: AuthConfig{
					BaseURL: "${WHISPER_SERVER_URL}",
				},
				Settings: map[string]interface{}{
					"response_format": "json",
				},
				Performance: PerformanceConfig{
					TimeoutSec:     120,
					MaxConcurrency: 2,
				},
				ErrorHandling: ErrorHandlingConfig{
					MaxRetries:   2,
					RetryDelayMs: 1000,
				},
			},
			"whisper_cpp": {
				Type:    "whisper_cpp",
				Enabled: false,
				Settings: map[string]interface{}{
					"binary_path": "/usr/local/bin/whisper-cpp",
					"model_path":  "/models/ggml-base.bin",
					"language":    "auto",
				},
				Performance: PerformanceConfig{
					TimeoutSec:     600,
					MaxConcurrency: 1,
				},
			},
			"elevenlabs": {
				Type:    "elevenlabs",
				Enabled: false,
				Auth: AuthConfig{
					APIKey: "${ELEVENLABS_API_KEY}",
				},
				Settings: map[string]interface{}{
					"model": "scribe_v1",
				},
				Performance: PerformanceConfig{
					TimeoutSec:     120,
					MaxConcurrency: 2,
				},
			},
			"openai_chat": {
				Type:    "openai_chat",
				Enabled: true,
				Auth: AuthConfig{
					APIKey:  "${OPENAI_API_KEY}",
					BaseURL: "${BASE_URL}",
				},
				Settings: map[string]interface{}{
					"model": "ai/gemma3n",
				},
				Performance: PerformanceConfig{
					TimeoutSec:     60,
					MaxConcurrency: 5,
				},
			},
			"gemini": {
				Type:    "gemini",
				Enabled: false,
				Auth: AuthConfig{
					APIKey: "${GEMINI_API_KEY}",
				},
				Settings: map[string]interface{}{
					"model": "gemini-2.0-flash",
				},
				Performance: PerformanceConfig{
					TimeoutSec:     60,
					MaxConcurrency: 5,
				},
			},
		},
		Orchestrator: OrchestratorConfig{
			FallbackChain:       []string{"openai", "whisper_server"},
			HealthCheckInterval: 5 * time.Minute,
			MaxRetries:          1,
			RetryDelay:          2 * time.Second,
		},
	}
}

func (cm *ConfigManager) expandEnvironmentVariables(config *ProviderConfiguration) {
	for name, providerConfig := range config.Providers {
		providerConfig.Auth.APIKey = os.ExpandEnv(providerConfig.Auth.APIKey)
		providerConfig.Auth.BaseURL = os.ExpandEnv(providerConfig.Auth.BaseURL)

		for key, value := range providerConfig.Auth.Headers {
			providerConfig.Auth.Headers[key] = os.ExpandEnv(value)
		}

		config.Providers[name] = providerConfig
	}
}

func (cm *ConfigManager) validateConfig(config *ProviderConfiguration) error {
	if config.DefaultProvider != "" {
		defaultConfig, exists := config.Providers[config.DefaultProvider]
		if !exists {
			return fmt.Errorf("default provider '%s' not found in providers", config.DefaultProvider)
		}
		if !defaultConfig.Enabled {
			return fmt.Errorf("default provider '%s' is disabled", config.DefaultProvider)
		}
	}

	if config.DefaultChatProvider != "" {
		chatConfig, exists := config.Providers[config.DefaultChatProvider]
		if !exists {
			return fmt.Errorf("default chat provider '%s' not found in providers", config.DefaultChatProvider)
		}
		if !chatConfig.Enabled {
			return fmt.Errorf("default chat provider '%s' is disabled", config.DefaultChatProvider)
		}
	}

	for name, providerConfig := range config.Providers {
		if providerConfig.Type == "" {
			return fmt.Errorf("provider '%s' has no type specified", name)
		}
		if providerConfig.Performance.TimeoutSec < 0 {
			return fmt.Errorf("provider '%s' has invalid timeout", name)
		}
		if providerConfig.Performance.MaxConcurrency < 0 {
			return fmt.Errorf("provider '%s' has invalid max concurrency", name)
		}
		if providerConfig.ErrorHandling.MaxRetries < 0 {
			return fmt.Errorf("provider '%s' has invalid max retries", name)
		}
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".rapidscribe", "providers.yaml")
	}
	return "./config/providers.yaml"
}
