package serve

import (
	"log"

	"github.com/spf13/cobra"

	"rapidscribe/internal/api/server"
	"rapidscribe/internal/app"
)

var host string
var port string

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "interface to bind, overrides HOST (default 0.0.0.0)")
	Cmd.Flags().StringVar(&port, "port", "", "port to listen on, overrides PORT (default 8000)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server

- Serves the transcription job, assistant, provider, stats and export endpoints
- Runs until SIGINT/SIGTERM, then drains in-flight requests`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := server.DefaultConfig()
		if host != "" {
			cfg.Host = host
		}
		if port != "" {
			cfg.Port = port
		}

		srv, cleanup, err := app.InitializeServer(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize server: %v", err)
		}
		defer cleanup()

		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	},
}
