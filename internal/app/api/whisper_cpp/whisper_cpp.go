package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/app/audio"
	"rapidscribe/internal/logger"
)

var cppLog = logger.MustNew("whisper_cpp")

// Config holds the settings for a local whisper.cpp installation.
type Config struct {
	BinaryPath string        `yaml:"binary_path"` // the whisper.cpp main binary
	ModelPath  string        `yaml:"model_path"`  // a ggml model file
	Language   string        `yaml:"language"`    // default "auto"
	Prompt     string        `yaml:"prompt"`
	Threads    int           `yaml:"threads"` // 0 lets whisper.cpp pick
	Timeout    time.Duration `yaml:"timeout"` // 0 relies on the caller's context
}

// Provider transcribes audio by shelling out to a whisper.cpp binary. It is
// the fully offline option: no endpoint, no API key, just a binary and a
// model file on disk.
type Provider struct {
	config Config
}

// New creates a whisper.cpp provider with defaults filled in.
func New(config Config) *Provider {
	if config.Language == "" {
		config.Language = "auto"
	}
	return &Provider{config: config}
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

// TranscriptWithOptions resamples the input to the 16 kHz mono wav
// whisper.cpp expects, runs the binary, and reads the transcript back from
// its text output file.
func (p *Provider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  "whisper_cpp",
			Retryable: false,
		}
	}

	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "whisper_cpp",
			Retryable: false,
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	// A failed resample is not fatal: the binary gets the original file and
	// produces its own error if it truly cannot read it.
	inputFilePath := request.InputFilePath
	if converted, err := audio.ConvertTo16kHzWav(ctx, request.InputFilePath); err != nil {
		cppLog.Warn("16kHz resample failed, passing original file to whisper.cpp",
			zap.String("file", request.InputFilePath), zap.Error(err))
	} else {
		inputFilePath = converted
	}

	outputDir, err := os.MkdirTemp("", "whispercpp-")
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "temp_dir_error",
			Message:   fmt.Sprintf("failed to create output directory: %v", err),
			Provider:  "whisper_cpp",
			Retryable: true,
		}
	}
	defer os.RemoveAll(outputDir)

	outputBase := filepath.Join(outputDir, "transcript")
	args := p.buildArgs(request, inputFilePath, outputBase)

	cmd := exec.CommandContext(ctx, p.config.BinaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	cppLog.Info("running whisper.cpp",
		zap.String("file", inputFilePath),
		zap.String("model", p.config.ModelPath))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &provider.TranscriptionError{
			Code:      "transcription_failed",
			Message:   fmt.Sprintf("whisper.cpp failed: %v: %s", err, stderrSnippet(stderr.Bytes())),
			Provider:  "whisper_cpp",
			Retryable: true,
		}
	}

	text, err := os.ReadFile(outputBase + ".txt")
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "output_read_failed",
			Message:   fmt.Sprintf("failed to read transcript output: %v", err),
			Provider:  "whisper_cpp",
			Retryable: false,
		}
	}

	transcript := strings.TrimSpace(string(text))
	if transcript == "" {
		return nil, &provider.TranscriptionError{
			Code:      "empty_transcription",
			Message:   "whisper.cpp produced no text",
			Provider:  "whisper_cpp",
			Retryable: false,
		}
	}

	return &provider.TranscriptionResponse{
		Text:           transcript,
		Language:       p.language(request),
		ProcessingTime: time.Since(startTime),
		ModelUsed:      filepath.Base(p.config.ModelPath),
	}, nil
}

// buildArgs assembles the whisper.cpp command line. Output is always -otxt
// into outputBase; timestamps and colors stay off so the file parses cleanly.
func (p *Provider) buildArgs(request *provider.TranscriptionRequest, inputFilePath, outputBase string) []string {
	args := []string{
		"-m", p.config.ModelPath,
		"-l", p.language(request),
		"-otxt",
		"-f", inputFilePath,
		"-of", outputBase,
	}
	if prompt := p.prompt(request); prompt != "" {
		args = append(args, "--prompt", prompt)
	}
	if p.config.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(p.config.Threads))
	}
	return args
}

func (p *Provider) language(request *provider.TranscriptionRequest) string {
	if request != nil && request.Language != "" {
		return request.Language
	}
	return p.config.Language
}

func (p *Provider) prompt(request *provider.TranscriptionRequest) string {
	if request != nil && request.Prompt != "" {
		return request.Prompt
	}
	return p.config.Prompt
}

func stderrSnippet(out []byte) string {
	s := strings.TrimSpace(string(out))
	const max = 400
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}

// GetProviderInfo reports the provider's capabilities.
func (p *Provider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "whisper_cpp",
		DisplayName: "Whisper.cpp (Local Binary)",
		Kind:        provider.KindSpeechToText,
		Type:        provider.ProviderTypeLocal,
		Version:     "1.0.0",
		SupportedFormats: []provider.AudioFormat{
			provider.FormatWAV,
			provider.FormatMP3,
			provider.FormatM4A,
		},
		SupportsLanguageDetection: true,
		RequiresInternet:          false,
		RequiresAPIKey:            false,
		DefaultModel:              "ggml-base.bin",
		AvailableModels: []string{
			"ggml-tiny.bin", "ggml-base.bin", "ggml-small.bin",
			"ggml-medium.bin", "ggml-large-v3.bin",
		},
	}
}

// ValidateConfiguration checks the binary and model exist on disk.
func (p *Provider) ValidateConfiguration() error {
	if p.config.BinaryPath == "" {
		return fmt.Errorf("binary_path is required")
	}
	if p.config.ModelPath == "" {
		return fmt.Errorf("model_path is required")
	}
	if _, err := os.Stat(p.config.BinaryPath); err != nil {
		return fmt.Errorf("whisper.cpp binary not found at %s", p.config.BinaryPath)
	}
	if _, err := os.Stat(p.config.ModelPath); err != nil {
		return fmt.Errorf("whisper model not found at %s", p.config.ModelPath)
	}
	return nil
}

// HealthCheck verifies the configured paths. A binary that exists but cannot
// run still fails at transcription time.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if err := p.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
