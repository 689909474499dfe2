// Package worker runs the Temporal worker process: connect to the server,
// register the transcription workflow and activities, and serve liveness
// endpoints for the container orchestrator.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/app/temporal/activities"
	"rapidscribe/internal/app/temporal/pkg/common"
	"rapidscribe/internal/app/temporal/workflows"
	"rapidscribe/internal/logger"
)

// Options controls one worker process.
type Options struct {
	// Identity names this worker in the Temporal UI. Defaults to
	// rapidscribe-worker-<hostname>.
	Identity string

	// HealthAddr is the listen address for the health endpoints. Defaults
	// to HEALTH_PORT or ":8081".
	HealthAddr string

	// WorkDir is where downloaded audio lands. Defaults to a per-process
	// temp directory.
	WorkDir string
}

// Dependencies are the backends the activities run against. Store and
// Objects may be nil; the corresponding activities then degrade as
// documented on the activity set.
type Dependencies struct {
	Registry provider.ProviderRegistry
	Store    repository.TranscriptDAO
	Objects  activities.ObjectStore
}

// Run starts the worker and blocks until SIGINT/SIGTERM.
func Run(opts Options, deps Dependencies) error {
	log := logger.MustNew("worker")
	defer log.Sync()

	if opts.Identity == "" {
		opts.Identity = fmt.Sprintf("rapidscribe-worker-%s", hostname())
	}
	if opts.HealthAddr == "" {
		opts.HealthAddr = os.Getenv("HEALTH_PORT")
		if opts.HealthAddr == "" {
			opts.HealthAddr = ":8081"
		}
	}
	if opts.WorkDir == "" {
		dir, err := os.MkdirTemp("", "rapidscribe-worker-")
		if err != nil {
			return fmt.Errorf("create work directory: %w", err)
		}
		opts.WorkDir = dir
	}

	cfg := common.ConfigFromEnv()
	log.Info("starting temporal worker",
		zap.String("temporalHost", cfg.HostPort),
		zap.String("taskQueue", cfg.TaskQueue),
		zap.String("namespace", cfg.Namespace),
		zap.String("identity", opts.Identity),
	)

	temporalClient, err := common.NewClient(cfg, log)
	if err != nil {
		return err
	}
	defer temporalClient.Close()

	acts := activities.NewActivities(deps.Registry, deps.Store, deps.Objects, opts.WorkDir)

	w := worker.New(temporalClient, cfg.TaskQueue, worker.Options{
		Identity:                               opts.Identity,
		MaxConcurrentActivityExecutionSize:     10,
		MaxConcurrentWorkflowTaskExecutionSize: 10,
	})

	w.RegisterWorkflow(workflows.TranscribeFileWorkflow)
	w.RegisterActivity(acts.Transcribe)
	w.RegisterActivity(acts.DownloadAudio)
	w.RegisterActivity(acts.PersistTranscript)
	w.RegisterActivity(acts.CleanupTempFile)
	w.RegisterActivity(acts.ProviderHealth)

	health := newHealthServer(opts.HealthAddr, healthState{
		WorkerID:  opts.Identity,
		TaskQueue: cfg.TaskQueue,
		StartedAt: time.Now(),
		Providers: probeProviders(deps.Registry, log),
	}, log)
	health.Start()
	defer health.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(worker.InterruptCh())
	}()
	health.SetReady(true)

	log.Info("worker started",
		zap.String("taskQueue", cfg.TaskQueue),
		zap.Int("maxConcurrentActivities", 10),
	)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("worker stopped: %w", err)
		}
		return nil
	case <-shutdownCh:
		log.Info("shutting down worker")
		health.SetReady(false)
		w.Stop()
		log.Info("worker stopped")
		return nil
	}
}

// probeProviders health-checks every registered provider once at startup so
// /health can report what this worker can actually serve.
func probeProviders(registry provider.ProviderRegistry, log *zap.Logger) []providerState {
	if registry == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var states []providerState
	for name, err := range registry.HealthCheckAll(ctx) {
		state := providerState{Name: name, Available: err == nil}
		if err != nil {
			state.Error = err.Error()
			log.Warn("provider unhealthy at startup",
				zap.String("provider", name), zap.Error(err))
		}
		states = append(states, state)
	}
	return states
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
