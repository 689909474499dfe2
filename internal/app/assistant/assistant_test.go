package assistant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidscribe/internal/app/api/provider"
	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/model"
	"rapidscribe/internal/config"
)

type fakeTranscriber struct {
	text string
	err  error

	gotPath string
}

func (f *fakeTranscriber) Transcript(inputFilePath string) (string, error) {
	f.gotPath = inputFilePath
	return f.text, f.err
}

type fakeChat struct {
	reply string
	err   error

	gotRequest *provider.ChatRequest
}

func (f *fakeChat) ChatCompletion(_ context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	f.gotRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return &provider.ChatResponse{Text: f.reply, ModelUsed: "ai/gemma3n"}, nil
}

func (f *fakeChat) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{Name: "fake_chat", Kind: provider.KindChat}
}

func (f *fakeChat) ValidateConfiguration() error { return nil }

func (f *fakeChat) HealthCheck(_ context.Context) error { return nil }

type fakeStore struct {
	saved *model.Exchange
	err   error
}

func (f *fakeStore) SaveExchange(_ context.Context, exchange *model.Exchange) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.saved = exchange
	return 42, nil
}

func newTestAssistant(t *testing.T, transcriber *fakeTranscriber, chat *fakeChat, store *fakeStore) (*Assistant, string) {
	t.Helper()
	t.Setenv("LOG_DIR", t.TempDir())

	audioRoot := t.TempDir()
	settings := &config.Settings{
		BaseURL:      "http://broken",
		APIKey:       "anything",
		DefaultModel: "ai/gemma3n",
		AudioDir:     audioRoot,
	}

	var s ExchangeStore
	if store != nil {
		s = store
	}
	return New(transcriber, chat, s, settings), audioRoot
}

func writeAudioFile(t *testing.T, audioRoot, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(audioRoot, name), []byte("fake audio"), 0644))
}

func TestAssistant_Ask_MessageOnly(t *testing.T) {
	chat := &fakeChat{reply: "  a bare string  "}
	store := &fakeStore{}
	a, _ := newTestAssistant(t, &fakeTranscriber{}, chat, store)

	resp, err := a.Ask(context.Background(), &Request{Message: "Tell me a joke"})
	require.NoError(t, err)

	assert.Equal(t, "a bare string", resp.Reply, "reply should be trimmed")
	assert.Empty(t, resp.Transcript)
	assert.Equal(t, "ai/gemma3n", resp.ModelUsed)

	require.NotNil(t, chat.gotRequest)
	assert.Equal(t, DefaultSystemPrompt, chat.gotRequest.SystemPrompt)
	assert.Equal(t, "Tell me a joke", chat.gotRequest.UserPrompt)

	require.NotNil(t, store.saved)
	assert.Equal(t, "Tell me a joke", store.saved.Message)
	assert.Equal(t, "a bare string", store.saved.Reply)
	assert.Equal(t, 42, resp.ExchangeID)
}

func TestAssistant_Ask_CombinesTranscript(t *testing.T) {
	transcriber := &fakeTranscriber{text: "tell me a joke"}
	chat := &fakeChat{reply: "ok"}
	a, audioRoot := newTestAssistant(t, transcriber, chat, nil)
	writeAudioFile(t, audioRoot, "note.mp3")

	_, err := a.Ask(context.Background(), &Request{
		Message:   "Summarize this",
		AudioPath: "note.mp3",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(audioRoot, "note.mp3"), transcriber.gotPath)
	assert.Equal(t, "Summarize this\n\n**Transcribed Audio:** tell me a joke", chat.gotRequest.UserPrompt)
}

func TestAssistant_Ask_AudioNotFound(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeTranscriber{}, &fakeChat{reply: "ok"}, nil)

	_, err := a.Ask(context.Background(), &Request{
		Message:   "Summarize this",
		AudioPath: "missing.mp3",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAudioNotFound), "got %v", err)
}

func TestAssistant_Ask_RejectsTraversal(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeTranscriber{}, &fakeChat{reply: "ok"}, nil)

	for _, audioPath := range []string{"../secrets.mp3", "../../etc/passwd", "/etc/passwd"} {
		_, err := a.Ask(context.Background(), &Request{
			Message:   "Summarize this",
			AudioPath: audioPath,
		})
		require.Error(t, err, "path %q must be rejected", audioPath)
		assert.True(t, errors.Is(err, apperrors.ErrPathOutsideRoot), "path %q: got %v", audioPath, err)
	}
}

func TestAssistant_Ask_TranscriptionFailureDegrades(t *testing.T) {
	transcriber := &fakeTranscriber{err: fmt.Errorf("whisper endpoint down")}
	chat := &fakeChat{reply: "ok"}
	a, audioRoot := newTestAssistant(t, transcriber, chat, nil)
	writeAudioFile(t, audioRoot, "note.mp3")

	resp, err := a.Ask(context.Background(), &Request{
		Message:   "Summarize this",
		AudioPath: "note.mp3",
	})
	require.NoError(t, err, "transcription failure should not fail the request")

	assert.Equal(t, "Summarize this", chat.gotRequest.UserPrompt, "prompt should fall back to the bare message")
	assert.Empty(t, resp.Transcript)
}

func TestAssistant_Ask_JSONFormat(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantKey string
		wantErr bool
	}{
		{
			name:    "fenced json",
			reply:   "```json\n{\"punchline\": \"because\"}\n```",
			wantKey: "punchline",
		},
		{
			name:    "bare fence",
			reply:   "```\n{\"punchline\": \"because\"}\n```",
			wantKey: "punchline",
		},
		{
			name:    "no fence",
			reply:   `{"punchline": "because"}`,
			wantKey: "punchline",
		},
		{
			name:    "not json",
			reply:   "just a plain sentence",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAssistant(t, &fakeTranscriber{}, &fakeChat{reply: tt.reply}, nil)

			resp, err := a.Ask(context.Background(), &Request{
				Message: "Tell me a joke",
				Format:  "json",
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrReplyNotJSON), "got %v", err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp.JSON)
			assert.Equal(t, "because", resp.JSON[tt.wantKey])
		})
	}
}

func TestAssistant_Ask_LLMUnavailable(t *testing.T) {
	chat := &fakeChat{err: apperrors.WithCause(apperrors.ErrLLMUnavailable, fmt.Errorf("connection refused"))}
	a, _ := newTestAssistant(t, &fakeTranscriber{}, chat, nil)

	_, err := a.Ask(context.Background(), &Request{Message: "Tell me a joke"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLLMUnavailable), "got %v", err)
}

func TestAssistant_Ask_Validation(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeTranscriber{}, &fakeChat{reply: "ok"}, nil)

	_, err := a.Ask(context.Background(), &Request{Message: "   "})
	assert.Error(t, err, "blank message must be rejected")

	_, err = a.Ask(context.Background(), &Request{Message: "hi", Format: "yaml"})
	assert.Error(t, err, "unknown format must be rejected")
}

func TestAssistant_Ask_PersistenceFailureKeepsReply(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("database is locked")}
	a, _ := newTestAssistant(t, &fakeTranscriber{}, &fakeChat{reply: "ok"}, store)

	resp, err := a.Ask(context.Background(), &Request{Message: "Tell me a joke"})
	require.NoError(t, err, "persistence failure should not fail the request")
	assert.Equal(t, "ok", resp.Reply)
	assert.Zero(t, resp.ExchangeID)
}

func TestCleanJSONFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "json fence", raw: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", raw: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "no fence", raw: `{"a": 1}`, want: `{"a": 1}`},
		{name: "surrounding whitespace", raw: "\n\n  {\"a\": 1}  \n", want: `{"a": 1}`},
		{name: "trailing fence only", raw: "{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "empty", raw: "", want: ""},
		{name: "only fences", raw: "```json\n```", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONFences(tt.raw))
		})
	}
}

func TestCleanAndDecode(t *testing.T) {
	parsed, err := CleanAndDecode("```json\n{\"joke\": \"a bare string\", \"rating\": 5}\n```")
	require.NoError(t, err)
	assert.Equal(t, "a bare string", parsed["joke"])
	assert.Equal(t, float64(5), parsed["rating"])

	_, err = CleanAndDecode("```json\n```")
	assert.Error(t, err, "empty body must error")

	_, err = CleanAndDecode("not json at all")
	assert.Error(t, err)
}
