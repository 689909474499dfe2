package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"rapidscribe/internal/app/api/provider"
)

// Config holds the settings for the remote Whisper provider.
type Config struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Language       string  `yaml:"language"`
	Prompt         string  `yaml:"prompt"`
	Temperature    float32 `yaml:"temperature"`
	ResponseFormat string  `yaml:"response_format"`
}

// Provider transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint. Any server speaking that protocol works,
// not just api.openai.com.
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

// NewWithClient creates a Provider around an existing client. Tests use this
// to point the provider at a fake server.
func NewWithClient(client *openai.Client, config Config) *Provider {
	if config.Model == "" {
		config.Model = string(openai.Whisper1)
	}
	// The API's own default. "text" would make the client read the body as a
	// raw string instead of parsing the JSON envelope.
	if config.ResponseFormat == "" {
		config.ResponseFormat = "json"
	}

	return &Provider{client: client, config: config}
}

// Transcript is the plain-path entry point used by the batch pipeline.
func (p *Provider) Transcript(inputFilePath string) (string, error) {
	resp, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}

// TranscriptWithOptions sends the file to the remote endpoint and returns the
// normalized response.
func (p *Provider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  "openai",
			Retryable: false,
		}
	}

	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "openai",
			Retryable: false,
		}
	}

	audioRequest := openai.AudioRequest{
		Model:       p.model(request),
		FilePath:    request.InputFilePath,
		Language:    p.language(request),
		Prompt:      p.prompt(request),
		Temperature: p.temperature(request),
		Format:      p.responseFormat(request),
	}

	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := p.client.CreateTranscription(ctx, audioRequest)
	if err != nil {
		return nil, p.wrapAPIError(err)
	}

	response := &provider.TranscriptionResponse{
		Text:           resp.Text,
		Language:       resp.Language,
		Duration:       time.Duration(resp.Duration * float64(time.Second)),
		ProcessingTime: time.Since(startTime),
		ModelUsed:      audioRequest.Model,
	}

	for _, seg := range resp.Segments {
		response.Segments = append(response.Segments, provider.TranscriptionSegment{
			ID:    seg.ID,
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
	}
	for _, w := range resp.Words {
		response.Words = append(response.Words, provider.TranscriptionWord{
			Word:  w.Word,
			Start: w.Start,
			End:   w.End,
		})
	}

	return response, nil
}

func (p *Provider) model(request *provider.TranscriptionRequest) string {
	if request.Model != "" {
		return request.Model
	}
	return p.config.Model
}

func (p *Provider) language(request *provider.TranscriptionRequest) string {
	lang := p.config.Language
	if request.Language != "" {
		lang = request.Language
	}
	// "auto" means let the endpoint detect, which is the no-field behavior.
	if lang == "auto" {
		return ""
	}
	return lang
}

func (p *Provider) prompt(request *provider.TranscriptionRequest) string {
	if request.Prompt != "" {
		return request.Prompt
	}
	return p.config.Prompt
}

func (p *Provider) temperature(request *provider.TranscriptionRequest) float32 {
	if request.Temperature > 0 {
		return request.Temperature
	}
	return p.config.Temperature
}

func (p *Provider) responseFormat(request *provider.TranscriptionRequest) openai.AudioResponseFormat {
	format := p.config.ResponseFormat
	if request.ResponseFormat != "" {
		format = request.ResponseFormat
	}

	switch strings.ToLower(format) {
	case "json":
		return openai.AudioResponseFormatJSON
	case "verbose_json":
		return openai.AudioResponseFormatVerboseJSON
	case "srt":
		return openai.AudioResponseFormatSRT
	case "vtt":
		return openai.AudioResponseFormatVTT
	default:
		return openai.AudioResponseFormatText
	}
}

// wrapAPIError converts client errors into TranscriptionError so the
// orchestrator can decide whether a retry is worthwhile.
func (p *Provider) wrapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401:
			return &provider.TranscriptionError{
				Code:      "authentication_failed",
				Message:   "API key rejected by the transcription endpoint",
				Provider:  "openai",
				Retryable: false,
			}
		case 413:
			return &provider.TranscriptionError{
				Code:      "file_too_large",
				Message:   "audio file exceeds the endpoint's size limit",
				Provider:  "openai",
				Retryable: false,
			}
		case 400:
			return &provider.TranscriptionError{
				Code:      "invalid_file",
				Message:   fmt.Sprintf("endpoint rejected the audio file: %s", apiErr.Message),
				Provider:  "openai",
				Retryable: false,
			}
		case 429:
			return &provider.TranscriptionError{
				Code:      "rate_limit_exceeded",
				Message:   "transcription endpoint rate limit exceeded",
				Provider:  "openai",
				Retryable: true,
			}
		default:
			return &provider.TranscriptionError{
				Code:      "api_error",
				Message:   fmt.Sprintf("transcription API error: %s", apiErr.Message),
				Provider:  "openai",
				Retryable: apiErr.HTTPStatusCode >= 500,
			}
		}
	}

	return &provider.TranscriptionError{
		Code:      "connection_failed",
		Message:   fmt.Sprintf("transcription request failed: %v", err),
		Provider:  "openai",
		Retryable: true,
	}
}

// GetProviderInfo reports the provider's capabilities.
func (p *Provider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "openai",
		DisplayName: "OpenAI-Compatible Whisper API",
		Kind:        provider.KindSpeechToText,
		Type:        provider.ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []provider.AudioFormat{
			provider.FormatMP3,
			provider.FormatM4A,
			provider.FormatWAV,
			provider.FormatFLAC,
			provider.FormatOGG,
			provider.FormatWEBM,
		},
		MaxFileSizeMB:             25,
		SupportsTimestamps:        true,
		SupportsWordLevel:         true,
		SupportsLanguageDetection: true,
		RequiresInternet:          true,
		RequiresAPIKey:            true,
		DefaultModel:              string(openai.Whisper1),
		AvailableModels:           []string{string(openai.Whisper1)},
	}
}

// ValidateConfiguration checks the provider is usable as configured.
func (p *Provider) ValidateConfiguration() error {
	if p.config.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	// api.openai.com keys have a known shape; compatible servers accept
	// anything non-empty.
	if p.talksToOpenAI() && !strings.HasPrefix(p.config.APIKey, "sk-") {
		return fmt.Errorf("API key for api.openai.com should start with 'sk-'")
	}

	if p.config.Temperature < 0 || p.config.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0.0 and 1.0")
	}

	switch p.config.ResponseFormat {
	case "", "text", "json", "verbose_json", "srt", "vtt":
	default:
		return fmt.Errorf("invalid response format: %s", p.config.ResponseFormat)
	}

	return nil
}

func (p *Provider) talksToOpenAI() bool {
	return p.config.BaseURL == "" || strings.Contains(p.config.BaseURL, "api.openai.com")
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
		return fmt.Errorf("transcription endpoint health check failed: %w", err)
	}

	return nil
}
