package assistant

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"rapidscribe/internal/app/api"
	"rapidscribe/internal/app/api/provider"
	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/util/files"
	"rapidscribe/internal/config"
	"rapidscribe/internal/logger"
)

// DefaultSystemPrompt is the instruction used when the caller supplies none.
const DefaultSystemPrompt = "Helpful AI. Give me a bare string no added newlines"

// combineFormat joins the user message with the transcript of the referenced
// audio file into a single user prompt.
const combineFormat = "%s\n\n**Transcribed Audio:** %s"

// ExchangeStore persists completed assistant round trips.
type ExchangeStore interface {
	SaveExchange(ctx context.Context, exchange *model.Exchange) (int, error)
}

// Request is one assist call.
type Request struct {
	Message      string
	AudioPath    string // relative to the audio root, optional
	Model        string // chat model override, optional
	SystemPrompt string // system prompt override, optional
	Format       string // "" for plain text, "json" to require a JSON reply
}

// Response is the assistant's reply plus what went into it.
type Response struct {
	Reply      string                 `json:"reply"`
	Transcript string                 `json:"transcript,omitempty"`
	ModelUsed  string                 `json:"model_used,omitempty"`
	JSON       map[string]interface{} `json:"json,omitempty"`
	ExchangeID int                    `json:"exchange_id,omitempty"`
}

// Assistant runs the transcribe-then-chat flow: resolve the audio file,
// transcribe it, fold the transcript into the user message, and ask the LLM.
type Assistant struct {
	transcriber api.Transcriber
	chat        provider.ChatProvider
	store       ExchangeStore
	settings    *config.Settings
	log         *zap.Logger
}

// New creates an Assistant. store may be nil when persistence is not wanted
// (the CLI path).
func New(transcriber api.Transcriber, chat provider.ChatProvider, store ExchangeStore, settings *config.Settings) *Assistant {
	return &Assistant{
		transcriber: transcriber,
		chat:        chat,
		store:       store,
		settings:    settings,
		log:         logger.MustNew("assistant"),
	}
}

// Ask executes one assist round trip.
//
// A failing transcription degrades to a message-only prompt, but a path that
// is missing or escapes the audio root is a hard error: the first is an
// upstream hiccup, the second is a bad request.
func (a *Assistant) Ask(ctx context.Context, req *Request) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.RequiredField("message")
	}
	if req.Format != "" && req.Format != "json" {
		return nil, apperrors.InvalidField("format", "must be \"json\" when set")
	}

	userPrompt := req.Message
	transcript := ""

	if req.AudioPath != "" {
		a.log.Debug("transcribing audio", zap.String("audio_path", req.AudioPath))

		fullPath, err := a.resolveAudioPath(req.AudioPath)
		if err != nil {
			return nil, err
		}

		transcript, err = a.transcriber.Transcript(fullPath)
		if err != nil {
			a.log.Warn("could not transcribe audio, proceeding with text message only",
				zap.String("audio_path", req.AudioPath), zap.Error(err))
		} else if transcript != "" {
			userPrompt = strings.TrimSpace(fmt.Sprintf(combineFormat, req.Message, transcript))
		}
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	a.log.Info("request content", zap.String("user_prompt", userPrompt))

	chatResp, err := a.chat.ChatCompletion(ctx, &provider.ChatRequest{
		Model:        req.Model,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		a.log.Error("chat completion failed",
			zap.String("base_url", a.settings.BaseURL), zap.Error(err))
		return nil, err
	}

	response := &Response{
		Reply:      strings.TrimSpace(chatResp.Text),
		Transcript: transcript,
		ModelUsed:  chatResp.ModelUsed,
	}
	if response.ModelUsed == "" {
		response.ModelUsed = a.settings.DefaultModel
	}

	if req.Format == "json" {
		parsed, err := CleanAndDecode(response.Reply)
		if err != nil {
			return nil, apperrors.WithCause(apperrors.ErrReplyNotJSON, err)
		}
		response.JSON = parsed
	}

	a.persistExchange(ctx, req, response)

	return response, nil
}

// resolveAudioPath joins the client path under the audio root and stats it.
func (a *Assistant) resolveAudioPath(audioPath string) (string, error) {
	fullPath, err := files.ResolveAudioPath(a.settings.AudioDir, audioPath)
	if err != nil {
		a.log.Error("rejected audio path", zap.String("audio_path", audioPath), zap.Error(err))
		return "", apperrors.WithCause(apperrors.ErrPathOutsideRoot, err)
	}

	if _, err := os.Stat(fullPath); err != nil {
		a.log.Error("audio file not found", zap.String("path", fullPath))
		return "", apperrors.WithCause(apperrors.ErrAudioNotFound, fmt.Errorf("no file at %s", fullPath))
	}

	return fullPath, nil
}

// persistExchange saves the round trip. Persistence failures are logged but
// never cost the caller their reply.
func (a *Assistant) persistExchange(ctx context.Context, req *Request, resp *Response) {
	if a.store == nil {
		return
	}

	id, err := a.store.SaveExchange(ctx, &model.Exchange{
		Message:    req.Message,
		AudioPath:  req.AudioPath,
		Transcript: resp.Transcript,
		Reply:      resp.Reply,
		ModelName:  resp.ModelUsed,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		a.log.Warn("failed to persist exchange", zap.Error(err))
		return
	}

	resp.ExchangeID = id
}
