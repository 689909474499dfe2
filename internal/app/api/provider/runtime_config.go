package provider

import "sync"

// RuntimeConfig carries command-line provider overrides into provider
// construction.
type RuntimeConfig struct {
	ProviderName     string
	ChatProviderName string
}

var (
	runtimeConfig   *RuntimeConfig
	runtimeConfigMu sync.RWMutex
)

// SetRuntimeConfig sets the runtime configuration.
func SetRuntimeConfig(config *RuntimeConfig) {
	runtimeConfigMu.Lock()
	defer runtimeConfigMu.Unlock()
	runtimeConfig = config
}

// GetRuntimeConfig gets the runtime configuration, which may be nil.
func GetRuntimeConfig() *RuntimeConfig {
	runtimeConfigMu.RLock()
	defer runtimeConfigMu.RUnlock()
	return runtimeConfig
}
