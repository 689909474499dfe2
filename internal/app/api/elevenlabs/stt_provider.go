package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rapidscribe/internal/app/api/provider"
)

// Config holds the settings for the ElevenLabs speech-to-text provider.
type Config struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"` // default "https://api.elevenlabs.io/v1"
	Model    string        `yaml:"model"`    // default "scribe_v1"
	Language string        `yaml:"language"` // ISO code, empty lets the API detect
	Diarize  bool          `yaml:"diarize"`
	Timeout  time.Duration `yaml:"timeout"`
}

// sttResponse is the ElevenLabs speech-to-text payload.
type sttResponse struct {
	LanguageCode        string    `json:"language_code,omitempty"`
	LanguageProbability float64   `json:"language_probability,omitempty"`
	Text                string    `json:"text"`
	Words               []sttWord `json:"words,omitempty"`
}

// sttWord is one alignment entry. Type distinguishes words from the spacing
// and audio-event entries scribe also emits.
type sttWord struct {
	Text    string  `json:"text"`
	Type    string  `json:"type,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker_id,omitempty"`
}

// Provider transcribes audio through the ElevenLabs scribe API. It is the
// hosted alternative for audio the whisper-family models handle poorly, and
// the only provider here that can attribute words to speakers.
type Provider struct {
	config Config
	client *http.Client
}

// New creates an ElevenLabs provider with defaults filled in.
func New(config Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if config.Model == "" {
		config.Model = "scribe_v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}

	return &Provider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
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

// TranscriptWithOptions uploads the file and maps the scribe response into
// the normalized form.
func (p *Provider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	fileInfo, err := os.Stat(request.InputFilePath)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	// The documented scribe upload limit.
	if fileInfo.Size() > 1<<30 {
		return nil, &provider.TranscriptionError{
			Code:      "file_too_large",
			Message:   "file size exceeds the 1GB upload limit",
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	body, contentType, err := p.buildMultipartForm(request)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "form_creation_failed",
			Message:   fmt.Sprintf("failed to create multipart form: %v", err),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	url := p.config.BaseURL + "/speech-to-text"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "request_creation_failed",
			Message:   fmt.Sprintf("failed to create HTTP request: %v", err),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("xi-api-key", p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "request_failed",
			Message:   fmt.Sprintf("HTTP request failed: %v", err),
			Provider:  "elevenlabs",
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp)
	}

	var scribe sttResponse
	if err := json.NewDecoder(resp.Body).Decode(&scribe); err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "response_parse_failed",
			Message:   fmt.Sprintf("failed to parse response: %v", err),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	text := strings.TrimSpace(scribe.Text)
	if text == "" {
		return nil, &provider.TranscriptionError{
			Code:      "empty_transcription",
			Message:   "no transcription text found in response",
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	response := &provider.TranscriptionResponse{
		Text:           text,
		Language:       scribe.LanguageCode,
		Confidence:     float32(scribe.LanguageProbability),
		ProcessingTime: time.Since(startTime),
		ModelUsed:      p.model(request),
	}
	for _, w := range scribe.Words {
		if w.Type != "" && w.Type != "word" {
			continue
		}
		response.Words = append(response.Words, provider.TranscriptionWord{
			Word:  w.Text,
			Start: w.Start,
			End:   w.End,
		})
	}

	return response, nil
}

// buildMultipartForm assembles the upload: the audio file plus the scribe
// parameters.
func (p *Provider) buildMultipartForm(request *provider.TranscriptionRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	file, err := os.Open(request.InputFilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(request.InputFilePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %v", err)
	}

	if err := writer.WriteField("model_id", p.model(request)); err != nil {
		return nil, "", fmt.Errorf("failed to write model_id field: %v", err)
	}
	if language := p.language(request); language != "" {
		if err := writer.WriteField("language_code", language); err != nil {
			return nil, "", fmt.Errorf("failed to write language_code field: %v", err)
		}
	}
	if p.config.Diarize {
		if err := writer.WriteField("diarize", "true"); err != nil {
			return nil, "", fmt.Errorf("failed to write diarize field: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType(), nil
}

// statusError maps API status codes onto retryability.
func (p *Provider) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &provider.TranscriptionError{
			Code:      "authentication_failed",
			Message:   "ElevenLabs rejected the API key",
			Provider:  "elevenlabs",
			Retryable: false,
		}
	case http.StatusTooManyRequests:
		return &provider.TranscriptionError{
			Code:      "rate_limit_exceeded",
			Message:   "ElevenLabs rate limit exceeded",
			Provider:  "elevenlabs",
			Retryable: true,
		}
	case http.StatusRequestEntityTooLarge:
		return &provider.TranscriptionError{
			Code:      "file_too_large",
			Message:   "ElevenLabs rejected the file size",
			Provider:  "elevenlabs",
			Retryable: false,
		}
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return &provider.TranscriptionError{
			Code:      "invalid_request",
			Message:   fmt.Sprintf("ElevenLabs rejected the request: %s", string(body)),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	default:
		return &provider.TranscriptionError{
			Code:      "api_error",
			Message:   fmt.Sprintf("ElevenLabs returned status %d: %s", resp.StatusCode, string(body)),
			Provider:  "elevenlabs",
			Retryable: resp.StatusCode >= 500,
		}
	}
}

func (p *Provider) model(request *provider.TranscriptionRequest) string {
	if request != nil && request.Model != "" {
		return request.Model
	}
	return p.config.Model
}

func (p *Provider) language(request *provider.TranscriptionRequest) string {
	if request != nil && request.Language != "" && request.Language != "auto" {
		return request.Language
	}
	if p.config.Language == "auto" {
		return ""
	}
	return p.config.Language
}

// GetProviderInfo reports the provider's capabilities.
func (p *Provider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "elevenlabs",
		DisplayName: "ElevenLabs Scribe",
		Kind:        provider.KindSpeechToText,
		Type:        provider.ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []provider.AudioFormat{
			provider.FormatMP3,
			provider.FormatWAV,
			provider.FormatM4A,
			provider.FormatFLAC,
			provider.FormatOGG,
			provider.FormatWEBM,
		},
		MaxFileSizeMB:             1024,
		SupportsTimestamps:        true,
		SupportsWordLevel:         true,
		SupportsLanguageDetection: true,
		RequiresInternet:          true,
		RequiresAPIKey:            true,
		DefaultModel:              "scribe_v1",
		AvailableModels:           []string{"scribe_v1", "scribe_v1_experimental"},
	}
}

// ValidateConfiguration checks the provider is usable as configured.
func (p *Provider) ValidateConfiguration() error {
	if p.config.APIKey == "" {
		return fmt.Errorf("API key is required, set ELEVENLABS_API_KEY")
	}
	if !strings.HasPrefix(p.config.BaseURL, "http://") && !strings.HasPrefix(p.config.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://")
	}
	return nil
}

// HealthCheck probes the lightweight /user endpoint, which answers with the
// account behind the key.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if err := p.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/user", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	req.Header.Set("xi-api-key", p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ElevenLabs connectivity test failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("ElevenLabs rejected the API key")
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("ElevenLabs returned error status: %d", resp.StatusCode)
	}

	return nil
}
