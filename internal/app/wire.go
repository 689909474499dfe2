//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"rapidscribe/internal/api/server"
	"rapidscribe/internal/app/api"
	"rapidscribe/internal/app/assistant"
	"rapidscribe/internal/app/batch"
	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/app/temporal/worker"
)

// InitializeServer builds the HTTP API server: orchestrated transcription
// with fallback, the assistant with exchange persistence, and storage from
// the environment. The cleanup closes the transcript store.
func InitializeServer(config server.Config) (*server.Server, func(), error) {
	wire.Build(
		provideSettings,
		provideProviderConfiguration,
		provideRegistry,
		provideOrchestrator,
		provideServerTranscriber,
		provideChatProvider,
		provideStore,
		provideExchangeStore,
		assistant.New,
		provideStorage,
		provideServerDependencies,
		server.NewServer,
	)
	return nil, nil, nil
}

// InitializeBatcher builds the batch pipeline for the transcribe command.
func InitializeBatcher() (*batch.Batcher, func(), error) {
	wire.Build(
		provideSettings,
		provideCLITranscriber,
		provideStore,
		provideBatcher,
	)
	return nil, nil, nil
}

// InitializeAssistant builds the one-shot assistant for the ask command.
func InitializeAssistant() (*assistant.Assistant, error) {
	wire.Build(
		provideSettings,
		provideProviderConfiguration,
		provideChatProvider,
		provideCLITranscriber,
		provideCLIAssistant,
	)
	return nil, nil
}

// InitializeStore opens the transcript store for the export and migrate
// commands.
func InitializeStore() (repository.Store, func(), error) {
	wire.Build(
		provideSettings,
		provideStore,
	)
	return nil, nil, nil
}

// InitializeWorkerDependencies assembles what a Temporal worker process
// needs: the provider registry, the transcript store and the optional object
// store.
func InitializeWorkerDependencies() (worker.Dependencies, func(), error) {
	wire.Build(
		provideSettings,
		provideProviderConfiguration,
		provideRegistry,
		provideStore,
		provideWorkerObjects,
		provideWorkerDependencies,
	)
	return worker.Dependencies{}, nil, nil
}

// InitializeDistributedTranscriber builds the Temporal client wrapper for
// submitting transcription workflows.
func InitializeDistributedTranscriber() (*api.DistributedTranscriber, error) {
	wire.Build(
		provideTemporalConfig,
		provideTemporalLogger,
		api.NewDistributedTranscriber,
	)
	return nil, nil
}
