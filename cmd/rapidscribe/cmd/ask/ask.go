package ask

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"rapidscribe/internal/app"
	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/app/assistant"
)

var (
	audioPath        string
	model            string
	systemPrompt     string
	asJSON           bool
	chatProviderName string
)

func init() {
	Cmd.Flags().StringVarP(&audioPath, "audio", "a", "",
		"audio file to transcribe and fold into the prompt, relative to the audio root")
	Cmd.Flags().StringVarP(&model, "model", "m", "", "chat model override")
	Cmd.Flags().StringVar(&systemPrompt, "system", "", "system prompt override")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "require a JSON reply and print it")
	Cmd.Flags().StringVar(&chatProviderName, "chat-provider", "", "chat provider to use, overrides the configured default")
}

// Cmd represents the ask command
var Cmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the assistant, optionally about an audio file",
	Long: `Ask the assistant, optionally about an audio file

- With --audio, the file is transcribed first and the transcript is folded
  into the prompt
- The exchange is not persisted; use the HTTP API for that`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if chatProviderName != "" {
			provider.SetRuntimeConfig(&provider.RuntimeConfig{ChatProviderName: chatProviderName})
		}

		assist, err := app.InitializeAssistant()
		if err != nil {
			log.Fatalf("Failed to initialize assistant: %v", err)
		}

		req := &assistant.Request{
			Message:      strings.Join(args, " "),
			AudioPath:    audioPath,
			Model:        model,
			SystemPrompt: systemPrompt,
		}
		if asJSON {
			req.Format = "json"
		}

		resp, err := assist.Ask(context.Background(), req)
		if err != nil {
			log.Fatalf("Ask failed: %v", err)
		}

		if asJSON && resp.JSON != nil {
			out, err := json.MarshalIndent(resp.JSON, "", "  ")
			if err != nil {
				log.Fatalf("Failed to render JSON reply: %v", err)
			}
			fmt.Println(string(out))
			return
		}
		fmt.Println(resp.Reply)
	},
}
