package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/genai"

	"rapidscribe/internal/app/api/provider"
)

// newFakeGeminiServer answers every generateContent call with a fixed reply,
// ignoring the exact path so API version changes do not break the test.
func newFakeGeminiServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "` + reply + `"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 4, "candidatesTokenCount": 6, "totalTokenCount": 10}
		}`))
	}))
}

func newTestProvider(t *testing.T, serverURL string) *Provider {
	t.Helper()

	p, err := newWithClientConfig(context.Background(), Config{APIKey: "AIzaTestKey000000000000000000000000"}, &genai.ClientConfig{
		APIKey:  "AIzaTestKey000000000000000000000000",
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: serverURL,
		},
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return p
}

func TestProvider_ChatCompletion(t *testing.T) {
	server := newFakeGeminiServer(t, "A gopher walks into a bar.")
	defer server.Close()

	p := newTestProvider(t, server.URL)

	resp, err := p.ChatCompletion(context.Background(), &provider.ChatRequest{
		SystemPrompt: "Helpful AI. Give me a bare string no added newlines",
		UserPrompt:   "Tell me a joke",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.Text != "A gopher walks into a bar." {
		t.Errorf("Unexpected reply text: %q", resp.Text)
	}
	if resp.ModelUsed != "gemini-2.0-flash" {
		t.Errorf("Expected default model gemini-2.0-flash, got %q", resp.ModelUsed)
	}
	if resp.TokensUsed != 10 {
		t.Errorf("Expected 10 tokens, got %d", resp.TokensUsed)
	}
}

func TestProvider_ChatCompletion_EmptyPrompt(t *testing.T) {
	server := newFakeGeminiServer(t, "unused")
	defer server.Close()

	p := newTestProvider(t, server.URL)

	if _, err := p.ChatCompletion(context.Background(), &provider.ChatRequest{}); err == nil {
		t.Fatal("Expected error for empty user prompt")
	}
}

func TestProvider_ValidateConfiguration(t *testing.T) {
	server := newFakeGeminiServer(t, "unused")
	defer server.Close()

	p := newTestProvider(t, server.URL)
	if err := p.ValidateConfiguration(); err != nil {
		t.Errorf("Expected valid configuration, got %v", err)
	}

	missing, err := newWithClientConfig(context.Background(), Config{}, &genai.ClientConfig{
		APIKey:  "AIzaTestKey000000000000000000000000",
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if err := missing.ValidateConfiguration(); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestProvider_GetProviderInfo(t *testing.T) {
	server := newFakeGeminiServer(t, "unused")
	defer server.Close()

	info := newTestProvider(t, server.URL).GetProviderInfo()
	if info.Name != "gemini" {
		t.Errorf("Expected provider name gemini, got %s", info.Name)
	}
	if info.Kind != provider.KindChat {
		t.Errorf("Expected chat kind, got %s", info.Kind)
	}
	if info.DefaultModel != "gemini-2.0-flash" {
		t.Errorf("Expected default model gemini-2.0-flash, got %s", info.DefaultModel)
	}
}
