package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"google.golang.org/genai"

	"rapidscribe/internal/app/api/provider"
	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/config"
)

// Config holds the settings for the Gemini chat provider.
type Config struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Provider runs chat completions against the Gemini API. It is the hosted
// alternative to the OpenAI-compatible chat provider for deployments without
// a local model runner.
type Provider struct {
	client *genai.Client
	config Config
}

// New creates a Gemini provider. The context is only used for client setup.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	return newWithClientConfig(ctx, cfg, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func newWithClientConfig(ctx context.Context, cfg Config, cc *genai.ClientConfig) (*Provider, error) {
	if cfg.Model == "" {
		cfg.Model = config.DefaultGeminiModel
	}

	if ctx == nil {
		ctx = context.Background()
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Provider{client: client, config: cfg}, nil
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

	genConfig := &genai.GenerateContentConfig{}
	if request.SystemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(request.SystemPrompt, genai.RoleUser)
	}
	if request.Temperature > 0 {
		genConfig.Temperature = genai.Ptr(request.Temperature)
	}
	if request.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(request.MaxTokens)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(request.UserPrompt), genConfig)
	if err != nil {
		return nil, p.wrapError(err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned an empty response")
	}

	response := &provider.ChatResponse{
		Text:           text,
		ModelUsed:      model,
		ProcessingTime: time.Since(startTime),
	}
	if resp.UsageMetadata != nil {
		response.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return response, nil
}

func (p *Provider) wrapError(err error) error {
	// Transport-level failures mean the endpoint is unreachable; API-level
	// failures (auth, quota, bad request) come back with an HTTP response.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return apperrors.WithCause(apperrors.ErrLLMUnavailable, err)
	}
	return fmt.Errorf("gemini chat completion failed: %w", err)
}

// GetProviderInfo reports the provider's capabilities.
func (p *Provider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:             "gemini",
		DisplayName:      "Google Gemini",
		Kind:             provider.KindChat,
		Type:             provider.ProviderTypeRemote,
		Version:          "1.0.0",
		RequiresInternet: true,
		RequiresAPIKey:   true,
		DefaultModel:     p.config.Model,
		AvailableModels:  []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
	}
}

// ValidateConfiguration checks the provider is usable as configured.
func (p *Provider) ValidateConfiguration() error {
	if p.config.APIKey == "" {
		return apperrors.WithCause(apperrors.ErrMissingAPIKey, fmt.Errorf("set GEMINI_API_KEY"))
	}
	if p.config.Model == "" {
		return apperrors.RequiredField("gemini model")
	}
	return nil
}

// HealthCheck sends a one-token generation as a liveness probe. The Gemini
// API has no free ping endpoint.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if err := p.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	_, err := p.client.Models.GenerateContent(ctx, p.config.Model, genai.Text("ping"), &genai.GenerateContentConfig{
		MaxOutputTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("gemini health check failed: %w", err)
	}

	return nil
}
