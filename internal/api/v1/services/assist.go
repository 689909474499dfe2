package services

import (
	"context"
	"errors"
	"fmt"

	apierrors "rapidscribe/internal/api/errors"
	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/app/assistant"
	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/config"
)

// AssistServiceImpl exposes the assistant flow over HTTP.
type AssistServiceImpl struct {
	assistant *assistant.Assistant
	settings  *config.Settings
}

// NewAssistService creates the assist service.
func NewAssistService(a *assistant.Assistant, settings *config.Settings) *AssistServiceImpl {
	return &AssistServiceImpl{
		assistant: a,
		settings:  settings,
	}
}

// Assist runs one round trip and maps domain failures onto API errors.
func (s *AssistServiceImpl) Assist(ctx context.Context, req *dto.AssistRequest) (*dto.AssistResponse, error) {
	resp, err := s.assistant.Ask(ctx, &assistant.Request{
		Message:      req.Message,
		AudioPath:    req.AudioPath,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		Format:       req.Format,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &dto.AssistResponse{
		Reply:      resp.Reply,
		Transcript: resp.Transcript,
		ModelUsed:  resp.ModelUsed,
		JSON:       resp.JSON,
		ExchangeID: resp.ExchangeID,
	}, nil
}

// mapError gives connectivity failures the message clients grep for; the
// generic classifier covers the rest.
func (s *AssistServiceImpl) mapError(err error) error {
	if errors.Is(err, apperrors.ErrLLMUnavailable) {
		return apierrors.NewUnavailableError(
			fmt.Sprintf("error connecting to LLM at %s", s.settings.BaseURL))
	}
	return err
}
