package worker

import (
	"log"

	"github.com/spf13/cobra"

	"rapidscribe/internal/app"
	"rapidscribe/internal/app/temporal/worker"
)

var (
	identity   string
	healthAddr string
	workDir    string
)

func init() {
	Cmd.Flags().StringVar(&identity, "identity", "", "worker identity, defaults to rapidscribe-worker-<hostname>")
	Cmd.Flags().StringVar(&healthAddr, "health-addr", "", "health endpoint listen address, overrides HEALTH_PORT (default :8081)")
	Cmd.Flags().StringVar(&workDir, "work-dir", "", "directory for downloaded audio, defaults to a temp dir")
}

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a Temporal transcription worker",
	Long: `Run a Temporal transcription worker

- Polls the task queue for transcription workflows and executes them
- Pulls queued audio from object storage when MINIO_ENDPOINT is set
- Serves /health, /live and /ready probes until SIGINT/SIGTERM`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, cleanup, err := app.InitializeWorkerDependencies()
		if err != nil {
			log.Fatalf("Failed to initialize worker dependencies: %v", err)
		}
		defer cleanup()

		opts := worker.Options{
			Identity:   identity,
			HealthAddr: healthAddr,
			WorkDir:    workDir,
		}
		if err := worker.Run(opts, deps); err != nil {
			log.Fatalf("Worker stopped with error: %v", err)
		}
	},
}
