package provider

import (
	"fmt"
	"sync"
)

// ProviderCreator builds a transcription provider from its settings map.
type ProviderCreator func(config map[string]interface{}) (TranscriptionProvider, error)

// ChatCreator builds a chat provider from its settings map.
type ChatCreator func(config map[string]interface{}) (ChatProvider, error)

// Creators register themselves from package init() so importing a provider
// package is all it takes to make it available.
var (
	creatorMu    sync.RWMutex
	sttCreators  = make(map[string]ProviderCreator)
	chatCreators = make(map[string]ChatCreator)
)

// RegisterProvider registers a transcription provider creator.
func RegisterProvider(providerType string, creator ProviderCreator) {
	creatorMu.Lock()
	defer creatorMu.Unlock()
	sttCreators[providerType] = creator
}

// RegisterChatProvider registers a chat provider creator.
func RegisterChatProvider(providerType string, creator ChatCreator) {
	creatorMu.Lock()
	defer creatorMu.Unlock()
	chatCreators[providerType] = creator
}

// GetProviderCreator returns the creator for a transcription provider type.
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	creatorMu.RLock()
	defer creatorMu.RUnlock()

	creator, ok := sttCreators[providerType]
	if !ok {
		return nil, fmt.Errorf("provider type %s not registered", providerType)
	}
	return creator, nil
}

// GetChatCreator returns the creator for a chat provider type.
func GetChatCreator(providerType string) (ChatCreator, error) {
	creatorMu.RLock()
	defer creatorMu.RUnlock()

	creator, ok := chatCreators[providerType]
	if !ok {
		return nil, fmt.Errorf("chat provider type %s not registered", providerType)
	}
	return creator, nil
}

// ListRegisteredProviders returns all registered transcription provider types.
func ListRegisteredProviders() []string {
	creatorMu.RLock()
	defer creatorMu.RUnlock()

	var providers []string
	for providerType := range sttCreators {
		providers = append(providers, providerType)
	}
	return providers
}

// ListRegisteredChatProviders returns all registered chat provider types.
func ListRegisteredChatProviders() []string {
	creatorMu.RLock()
	defer creatorMu.RUnlock()

	var providers []string
	for providerType := range chatCreators {
		providers = append(providers, providerType)
	}
	return providers
}
