package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"rapidscribe/internal/app/api/provider"
	apperrors "rapidscribe/internal/app/errors"
)

// Config holds the settings for the OpenAI-compatible chat provider.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Provider runs chat completions against an OpenAI-compatible endpoint.
// Local model runners (Docker Model Runner, Ollama, llama.cpp server) all
// speak this protocol, so the same provider covers hosted and local LLMs.
type Provider struct {
	client *openai.Client
	config Config
}

// New creates a Provider, building its own API client from the config.
func New(config Config) *Provider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return NewWithClient(openai.NewClientWithConfig(clientConfig), config)
}

// NewWithClient creates a Provider around an existing client.
func NewWithClient(client *openai.Client, config Config) *Provider {
	return &Provider{client: client, config: config}
}

// ChatCompletion sends a system+user prompt pair and returns the reply text.
func (p *Provider) ChatCompletion(ctx context.Context, request *provider.ChatRequest) (*provider.ChatResponse, error) {
	startTime := time.Now()

	if request.UserPrompt == "" {
		return nil, apperrors.RequiredField("user prompt")
	}

	model := request.Model
	if model == "" {
		model = p.config.Model
	}

	var messages []openai.ChatCompletionMessage
	if request.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: request.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: request.UserPrompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
	}

	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, p.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &provider.ChatResponse{
		Text:           resp.Choices[0].Message.Content,
		ModelUsed:      resp.Model,
		ProcessingTime: time.Since(startTime),
		TokensUsed:     resp.Usage.TotalTokens,
	}, nil
}

// wrapError classifies failures so callers can tell "the LLM is down" from
// "the LLM rejected this request".
func (p *Provider) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode >= 500 {
			return apperrors.WithCause(apperrors.ErrLLMUnavailable, err)
		}
		return fmt.Errorf("chat completion failed: %w", err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode >= 500 {
			return apperrors.WithCause(apperrors.ErrLLMUnavailable, err)
		}
		return fmt.Errorf("chat completion failed: %w", err)
	}

	// No HTTP response at all: DNS failure, refused connection, timeout.
	return apperrors.WithCause(apperrors.ErrLLMUnavailable, err)
}

// GetProviderInfo reports the provider's capabilities.
func (p *Provider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:             "openai_chat",
		DisplayName:      "OpenAI-Compatible Chat API",
		Kind:             provider.KindChat,
		Type:             provider.ProviderTypeRemote,
		Version:          "1.0.0",
		RequiresInternet: true,
		RequiresAPIKey:   true,
		DefaultModel:     p.config.Model,
	}
}

// ValidateConfiguration checks the provider is usable as configured.
func (p *Provider) ValidateConfiguration() error {
	if p.config.APIKey == "" {
		return apperrors.ErrMissingAPIKey
	}
	if p.config.Model == "" {
		return apperrors.RequiredField("chat model")
	}

	if strings.Contains(p.config.BaseURL, "api.openai.com") && !strings.HasPrefix(p.config.APIKey, "sk-") {
		return fmt.Errorf("API key for api.openai.com should start with 'sk-'")
	}

	return nil
}

// HealthCheck verifies the endpoint answers a lightweight models listing.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if err := p.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	if _, err := p.client.ListModels(ctx); err != nil {
		return apperrors.WithCause(apperrors.ErrLLMUnavailable, err)
	}

	return nil
}
