package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"rapidscribe/cmd/rapidscribe/cmd/ask"
	"rapidscribe/cmd/rapidscribe/cmd/export"
	"rapidscribe/cmd/rapidscribe/cmd/fetch"
	"rapidscribe/cmd/rapidscribe/cmd/migrate"
	"rapidscribe/cmd/rapidscribe/cmd/serve"
	"rapidscribe/cmd/rapidscribe/cmd/transcribe"
	"rapidscribe/cmd/rapidscribe/cmd/version"
	"rapidscribe/cmd/rapidscribe/cmd/worker"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rapidscribe",
	Short: "Audio transcription service with pluggable speech-to-text providers and an LLM assistant",
	Long: `Audio transcription service with pluggable speech-to-text providers and an LLM assistant.
- Serve the HTTP API, or transcribe whole directories from the command line
- Fetch podcast episodes, ask the assistant about an audio file, export to excel
- Transcripts are saved to sqlite by default, postgres when DATABASE_URL is set.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(ask.Cmd)
	rootCmd.AddCommand(fetch.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
