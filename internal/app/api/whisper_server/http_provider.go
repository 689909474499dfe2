package whisper_server

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
	"strconv"
	"strings"
	"time"

	"rapidscribe/internal/app/api/provider"
)

// Config holds the settings for a whisper.cpp server instance.
type Config struct {
	BaseURL        string            `yaml:"base_url"`        // e.g. "http://192.168.1.100:8080"
	InferencePath  string            `yaml:"inference_path"`  // default "/inference"
	LoadPath       string            `yaml:"load_path"`       // default "/load"
	Timeout        time.Duration     `yaml:"timeout"`
	Language       string            `yaml:"language"`
	ResponseFormat string            `yaml:"response_format"` // json, text, srt, vtt, verbose_json
	Temperature    float64           `yaml:"temperature"`
	Translate      bool              `yaml:"translate"`
	NoTimestamps   bool              `yaml:"no_timestamps"`
	CustomHeaders  map[string]string `yaml:"custom_headers"`
}

// serverResponse is the whisper-server JSON payload.
type serverResponse struct {
	Text             string          `json:"text,omitempty"`
	Task             string          `json:"task,omitempty"`
	Language         string          `json:"language,omitempty"`
	Duration         float64         `json:"duration,omitempty"`
	Segments         []serverSegment `json:"segments,omitempty"`
	DetectedLanguage string          `json:"detected_language,omitempty"`
}

type serverSegment struct {
	ID    int          `json:"id"`
	Text  string       `json:"text"`
	Start float64      `json:"start"`
	End   float64      `json:"end"`
	Words []serverWord `json:"words,omitempty"`
}

type serverWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability,omitempty"`
}

// Provider transcribes audio against a self-hosted whisper.cpp server over
// its plain multipart HTTP API.
type Provider struct {
	config Config
	client *http.Client
}

// New creates a whisper-server provider with defaults filled in.
func New(config Config) *Provider {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.LoadPath == "" {
		config.LoadPath = "/load"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.ResponseFormat == "" {
		config.ResponseFormat = "json"
	}

	return &Provider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Transcript is the plain-path entry point used by the batch pipeline.
func (p *Provider) Transcript(inputFilePath string) (string, error) {
	response, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}

	return response.Text, nil
}

// TranscriptWithOptions uploads the file and parses the configured response
// format into the normalized response.
func (p *Provider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  "whisper_server",
			Retryable: false,
		}
	}

	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "whisper_server",
			Retryable: false,
		}
	}

	body, contentType, err := p.buildMultipartForm(request)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "form_creation_failed",
			Message:   fmt.Sprintf("failed to create multipart form: %v", err),
			Provider:  "whisper_server",
			Retryable: false,
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	url := p.config.BaseURL + p.config.InferencePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "request_creation_failed",
			Message:   fmt.Sprintf("failed to create HTTP request: %v", err),
			Provider:  "whisper_server",
			Retryable: false,
		}
	}

	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range p.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "request_failed",
			Message:   fmt.Sprintf("HTTP request failed: %v", err),
			Provider:  "whisper_server",
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "response_read_failed",
			Message:   fmt.Sprintf("failed to read response: %v", err),
			Provider:  "whisper_server",
			Retryable: true,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.TranscriptionError{
			Code:      "api_error",
			Message:   fmt.Sprintf("server returned status %d: %s", resp.StatusCode, string(responseData)),
			Provider:  "whisper_server",
			Retryable: resp.StatusCode >= 500,
		}
	}

	response, err := p.parseResponse(responseData, p.responseFormat(request))
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "response_parse_failed",
			Message:   fmt.Sprintf("failed to parse response: %v", err),
			Provider:  "whisper_server",
			Retryable: false,
		}
	}

	if response.Text == "" {
		return nil, &provider.TranscriptionError{
			Code:      "empty_transcription",
			Message:   "no transcription text found in response",
			Provider:  "whisper_server",
			Retryable: false,
		}
	}

	if response.Language == "" {
		response.Language = p.language(request)
	}
	response.ProcessingTime = time.Since(startTime)
	response.ModelUsed = "whisper-server"

	return response, nil
}

// buildMultipartForm assembles the upload: the audio file plus the parameter
// fields whisper-server understands.
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

	params := map[string]string{
		"response_format": p.responseFormat(request),
		"temperature":     fmt.Sprintf("%.2f", p.temperature(request)),
	}
	if language := p.language(request); language != "" {
		params["language"] = language
	}
	if request.Prompt != "" {
		params["prompt"] = request.Prompt
	}
	if p.config.Translate {
		params["translate"] = "true"
	}
	if p.config.NoTimestamps {
		params["no_timestamps"] = "true"
	}

	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %v", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType(), nil
}

// parseResponse normalizes the server payload for the configured format.
func (p *Provider) parseResponse(data []byte, format string) (*provider.TranscriptionResponse, error) {
	switch format {
	case "json", "verbose_json":
		var resp serverResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %v", err)
		}

		response := &provider.TranscriptionResponse{
			Text:     strings.TrimSpace(resp.Text),
			Language: resp.Language,
			Duration: time.Duration(resp.Duration * float64(time.Second)),
		}
		if response.Language == "" {
			response.Language = resp.DetectedLanguage
		}

		for _, seg := range resp.Segments {
			segment := provider.TranscriptionSegment{
				ID:    seg.ID,
				Text:  strings.TrimSpace(seg.Text),
				Start: seg.Start,
				End:   seg.End,
			}
			for _, w := range seg.Words {
				word := provider.TranscriptionWord{
					Word:        w.Word,
					Start:       w.Start,
					End:         w.End,
					Probability: w.Probability,
				}
				segment.Words = append(segment.Words, word)
				response.Words = append(response.Words, word)
			}
			response.Segments = append(response.Segments, segment)
		}

		return response, nil

	case "text":
		return &provider.TranscriptionResponse{Text: strings.TrimSpace(string(data))}, nil

	case "srt", "vtt":
		content := strings.TrimSpace(string(data))
		return &provider.TranscriptionResponse{Text: extractTextFromSubtitles(content, format)}, nil

	default:
		return &provider.TranscriptionResponse{Text: strings.TrimSpace(string(data))}, nil
	}
}

// extractTextFromSubtitles strips sequence numbers, timestamps and headers,
// leaving just the spoken text.
func extractTextFromSubtitles(content, format string) string {
	lines := strings.Split(content, "\n")
	var textLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, "-->") {
			continue
		}
		if format == "srt" && len(line) <= 4 && isNumeric(line) {
			continue
		}
		if format == "vtt" && line == "WEBVTT" {
			continue
		}

		textLines = append(textLines, line)
	}

	return strings.Join(textLines, " ")
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
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

func (p *Provider) responseFormat(request *provider.TranscriptionRequest) string {
	if request != nil && request.ResponseFormat != "" {
		return request.ResponseFormat
	}
	return p.config.ResponseFormat
}

func (p *Provider) temperature(request *provider.TranscriptionRequest) float64 {
	if request != nil && request.Temperature > 0 {
		return float64(request.Temperature)
	}
	return p.config.Temperature
}

// GetProviderInfo reports the provider's capabilities.
func (p *Provider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "whisper_server",
		DisplayName: "Whisper Server (HTTP API)",
		Kind:        provider.KindSpeechToText,
		Type:        provider.ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []provider.AudioFormat{
			provider.FormatWAV,
			provider.FormatMP3,
			provider.FormatM4A,
			provider.FormatFLAC,
			provider.FormatOGG,
			provider.FormatWEBM,
		},
		MaxFileSizeMB:             100,
		SupportsTimestamps:        true,
		SupportsWordLevel:         true,
		SupportsLanguageDetection: true,
		RequiresInternet:          true,
		RequiresAPIKey:            false,
		DefaultModel:              "whisper-server",
		AvailableModels:           []string{"whisper-server"},
	}
}

// ValidateConfiguration checks the provider is usable as configured.
func (p *Provider) ValidateConfiguration() error {
	if p.config.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(p.config.BaseURL, "http://") && !strings.HasPrefix(p.config.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://")
	}
	if p.config.Temperature < 0.0 || p.config.Temperature > 1.0 {
		return fmt.Errorf("temperature must be between 0.0 and 1.0")
	}

	switch p.config.ResponseFormat {
	case "", "json", "verbose_json", "text", "srt", "vtt":
	default:
		return fmt.Errorf("response_format must be one of: json, verbose_json, text, srt, vtt")
	}

	return nil
}

// HealthCheck probes the server root. Whisper-server has no dedicated health
// endpoint; any response at all means the process is up.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if err := p.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	for key, value := range p.config.CustomHeaders {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("server connectivity test failed: %w", err)
	}
	defer resp.Body.Close()

	// 503 can come from a reverse proxy while the server itself is fine.
	if resp.StatusCode >= 500 && resp.StatusCode != http.StatusServiceUnavailable {
		return fmt.Errorf("server returned error status: %d", resp.StatusCode)
	}

	return nil
}

// LoadModel asks the server to swap its model, for servers started with a
// model directory.
func (p *Provider) LoadModel(ctx context.Context, modelPath string) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", modelPath); err != nil {
		return fmt.Errorf("failed to write model field: %v", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %v", err)
	}

	url := p.config.BaseURL + p.config.LoadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create load model request: %v", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	for key, value := range p.config.CustomHeaders {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("load model request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("load model failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
