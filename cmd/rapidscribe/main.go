package main

import (
	"fmt"
	"os"

	"rapidscribe/cmd/rapidscribe/cmd"
	"rapidscribe/internal/config"

	// Import providers to register them
	_ "rapidscribe/internal/app/api/elevenlabs"
	_ "rapidscribe/internal/app/api/gemini"
	_ "rapidscribe/internal/app/api/openai/chat"
	_ "rapidscribe/internal/app/api/openai/whisper"
	_ "rapidscribe/internal/app/api/whisper_cpp"
	_ "rapidscribe/internal/app/api/whisper_server"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cmd.Execute()
}
