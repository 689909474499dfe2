// Package app assembles the composition roots the CLI commands start from.
// The injectors live in wire.go; everything here is a plain provider
// function.
package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"rapidscribe/internal/api/server"
	"rapidscribe/internal/api/v1/services"
	"rapidscribe/internal/app/api"
	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/app/assistant"
	"rapidscribe/internal/app/batch"
	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/app/repository/pg"
	"rapidscribe/internal/app/repository/sqlite"
	"rapidscribe/internal/app/temporal/activities"
	"rapidscribe/internal/app/temporal/pkg/common"
	"rapidscribe/internal/app/temporal/worker"
	"rapidscribe/internal/config"
	"rapidscribe/internal/logger"
)

func provideSettings() *config.Settings {
	return config.LoadSettings()
}

// resolveProviderConfigPath prefers a providers.yaml in the working directory
// over the per-user default.
func resolveProviderConfigPath() string {
	if _, err := os.Stat("providers.yaml"); err == nil {
		return "providers.yaml"
	}
	return provider.GetDefaultConfigPath()
}

func provideProviderConfiguration() (*provider.ProviderConfiguration, error) {
	return provider.NewConfigManager(resolveProviderConfigPath()).LoadConfig()
}

func provideRegistry(cfg *provider.ProviderConfiguration) (provider.ProviderRegistry, error) {
	return provider.NewRegistryFromConfiguration(cfg)
}

func provideOrchestrator(registry provider.ProviderRegistry, cfg *provider.ProviderConfiguration) provider.TranscriptionOrchestrator {
	return provider.NewTranscriptionOrchestrator(registry, provider.NewProviderMetrics(), cfg.Orchestrator)
}

// provideServerTranscriber is the HTTP path: every job rides the
// orchestrator's fallback chain.
func provideServerTranscriber(orch provider.TranscriptionOrchestrator) api.Transcriber {
	return provider.NewOrchestratorTranscriber(orch)
}

// provideCLITranscriber is the CLI path: one provider resolved from
// providers.yaml, overridable at runtime via --provider.
func provideCLITranscriber() api.Transcriber {
	return provider.NewSimpleProviderTranscriber()
}

func provideChatProvider(cfg *provider.ProviderConfiguration) (provider.ChatProvider, error) {
	chatRegistry, err := provider.NewChatRegistryFromConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	if rc := provider.GetRuntimeConfig(); rc != nil && rc.ChatProviderName != "" {
		return chatRegistry.GetProvider(rc.ChatProviderName)
	}
	return chatRegistry.GetDefaultProvider()
}

// provideStore opens postgres when DATABASE_URL is set, sqlite under the data
// directory otherwise. The cleanup closes the handle.
func provideStore(settings *config.Settings) (repository.Store, func(), error) {
	var store *repository.SQLStore
	var err error
	if dsn := config.GetServerConfig().DatabaseURL; dsn != "" {
		store, err = pg.Open(dsn)
	} else {
		store, err = sqlite.Open(sqlite.DefaultDBPath(settings.DataDir))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open transcript store: %w", err)
	}
	return store, func() { store.Close() }, nil
}

func provideExchangeStore(store repository.Store) assistant.ExchangeStore {
	return store
}

// provideCLIAssistant skips exchange persistence: a one-shot ask should not
// touch the database.
func provideCLIAssistant(transcriber api.Transcriber, chat provider.ChatProvider, settings *config.Settings) *assistant.Assistant {
	return assistant.New(transcriber, chat, nil, settings)
}

func provideStorage() (services.StorageService, error) {
	return services.NewStorageFromEnv()
}

func provideBatcher(transcriber api.Transcriber, store repository.Store, settings *config.Settings) *batch.Batcher {
	return batch.NewBatcher(transcriber, store, settings.DataDir+"/mp3")
}

// provideWorkerObjects resolves the object store workers pull queued audio
// from. No MINIO_ENDPOINT means this worker only transcribes local paths.
func provideWorkerObjects() (activities.ObjectStore, error) {
	if os.Getenv("MINIO_ENDPOINT") == "" {
		return nil, nil
	}
	storage, err := services.NewStorageFromEnv()
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func provideWorkerDependencies(registry provider.ProviderRegistry, store repository.Store, objects activities.ObjectStore) worker.Dependencies {
	return worker.Dependencies{
		Registry: registry,
		Store:    store,
		Objects:  objects,
	}
}

func provideServerDependencies(
	transcriber api.Transcriber,
	assist *assistant.Assistant,
	registry provider.ProviderRegistry,
	store repository.Store,
	storage services.StorageService,
	settings *config.Settings,
) server.Dependencies {
	return server.Dependencies{
		Transcriber: transcriber,
		Assistant:   assist,
		Registry:    registry,
		Store:       store,
		Storage:     storage,
		Settings:    settings,
	}
}

func provideTemporalConfig() common.Config {
	return common.ConfigFromEnv()
}

func provideTemporalLogger() *zap.Logger {
	return logger.MustNew("temporal")
}
