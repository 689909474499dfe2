package services_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "rapidscribe/internal/api/errors"
	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/api/v1/services"
	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/app/assistant"
	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/testutil"
	"rapidscribe/internal/config"
)

type scriptedChat struct {
	reply string
	err   error
}

func (c *scriptedChat) ChatCompletion(_ context.Context, _ *provider.ChatRequest) (*provider.ChatResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &provider.ChatResponse{Text: c.reply, ModelUsed: "ai/gemma3n"}, nil
}

func (c *scriptedChat) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{Name: "scripted_chat", Kind: provider.KindChat}
}

func (c *scriptedChat) ValidateConfiguration() error { return nil }

func (c *scriptedChat) HealthCheck(_ context.Context) error { return nil }

func newAssistService(t *testing.T, chat *scriptedChat) (*services.AssistServiceImpl, string) {
	t.Helper()
	t.Setenv("LOG_DIR", t.TempDir())

	audioRoot := t.TempDir()
	settings := &config.Settings{
		BaseURL:      "http://llm:8080/v1",
		APIKey:       "anything",
		DefaultModel: "ai/gemma3n",
		AudioDir:     audioRoot,
	}

	a := assistant.New(testutil.NewMockTranscriber().WithDefaultResponse("spoken words"), chat, testutil.NewMockStore(), settings)
	return services.NewAssistService(a, settings), audioRoot
}

func TestAssistMapsReply(t *testing.T) {
	svc, audioRoot := newAssistService(t, &scriptedChat{reply: "the reply"})
	require.NoError(t, os.WriteFile(filepath.Join(audioRoot, "clip.mp3"), []byte("fake audio"), 0644))

	resp, err := svc.Assist(context.Background(), &dto.AssistRequest{
		Message:   "what was said?",
		AudioPath: "clip.mp3",
	})
	require.NoError(t, err)

	assert.Equal(t, "the reply", resp.Reply)
	assert.Equal(t, "spoken words", resp.Transcript)
	assert.Equal(t, "ai/gemma3n", resp.ModelUsed)
	assert.NotZero(t, resp.ExchangeID)
}

func TestAssistMapsConnectivityFailure(t *testing.T) {
	chat := &scriptedChat{
		err: apperrors.WithCause(apperrors.ErrLLMUnavailable, fmt.Errorf("dial tcp: connection refused")),
	}
	svc, _ := newAssistService(t, chat)

	_, err := svc.Assist(context.Background(), &dto.AssistRequest{Message: "hi"})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindUnavailable, apiErr.Kind)
	assert.Equal(t, "error connecting to LLM at http://llm:8080/v1", apiErr.Message)
}

func TestAssistPassesDomainErrorsThrough(t *testing.T) {
	svc, _ := newAssistService(t, &scriptedChat{reply: "unused"})

	_, err := svc.Assist(context.Background(), &dto.AssistRequest{
		Message:   "what was said?",
		AudioPath: "missing.mp3",
	})

	assert.ErrorIs(t, err, apperrors.ErrAudioNotFound)
}
