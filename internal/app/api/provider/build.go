package provider

import (
	"fmt"
)

// NewRegistryFromConfiguration instantiates every enabled transcription
// provider in cfg and registers it. Entries whose type has no transcription
// creator (chat providers share the same file) are skipped.
func NewRegistryFromConfiguration(cfg *ProviderConfiguration) (*DefaultProviderRegistry, error) {
	registry := NewProviderRegistry()
	factory := NewProviderFactory()

	for name, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}
		if _, err := GetProviderCreator(pc.Type); err != nil {
			continue
		}

		p, err := factory.CreateProvider(pc.Type, CreatorSettings(pc))
		if err != nil {
			return nil, fmt.Errorf("create provider %q: %w", name, err)
		}
		if err := registry.RegisterProvider(name, p); err != nil {
			return nil, fmt.Errorf("register provider %q: %w", name, err)
		}
	}

	if cfg.DefaultProvider != "" {
		if err := registry.SetDefaultProvider(cfg.DefaultProvider); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// NewChatRegistryFromConfiguration does the same for chat providers.
func NewChatRegistryFromConfiguration(cfg *ProviderConfiguration) (*DefaultChatRegistry, error) {
	registry := NewChatRegistry()
	factory := NewProviderFactory()

	for name, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}
		if _, err := GetChatCreator(pc.Type); err != nil {
			continue
		}

		p, err := factory.CreateChatProvider(pc.Type, CreatorSettings(pc))
		if err != nil {
			return nil, fmt.Errorf("create chat provider %q: %w", name, err)
		}
		if err := registry.RegisterProvider(name, p); err != nil {
			return nil, fmt.Errorf("register chat provider %q: %w", name, err)
		}
	}

	if cfg.DefaultChatProvider != "" {
		if err := registry.SetDefaultProvider(cfg.DefaultChatProvider); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
