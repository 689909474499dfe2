package whisper_cpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"rapidscribe/internal/app/api/provider"
)

// writeFakeBinary drops an executable shell script that stands in for the
// whisper.cpp main binary.
func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binary scripts need a unix shell")
	}

	path := filepath.Join(t.TempDir(), "whisper-main")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

// fakeTranscribingBinary emits the given text into the -of output file, the
// way whisper.cpp -otxt does.
func fakeTranscribingBinary(t *testing.T, text string) string {
	t.Helper()
	return writeFakeBinary(t, `
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-of" ]; then out="$2"; fi
  shift
done
printf '%s\n' "`+text+`" > "$out.txt"
`)
}

func writeFakeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-base.bin")
	if err := os.WriteFile(path, []byte("ggml"), 0o644); err != nil {
		t.Fatalf("write fake model: %v", err)
	}
	return path
}

func writeFakeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF fake audio data"), 0o644); err != nil {
		t.Fatalf("write fake audio: %v", err)
	}
	return path
}

func TestNew_AppliesDefaults(t *testing.T) {
	p := New(Config{BinaryPath: "/opt/whisper/main", ModelPath: "/opt/whisper/ggml-base.bin"})

	if p.config.Language != "auto" {
		t.Errorf("Expected default language auto, got %s", p.config.Language)
	}
}

func TestBuildArgs(t *testing.T) {
	p := New(Config{
		BinaryPath: "/opt/whisper/main",
		ModelPath:  "/models/ggml-base.bin",
		Language:   "en",
		Threads:    4,
	})

	args := p.buildArgs(&provider.TranscriptionRequest{}, "in.wav", "/tmp/out/transcript")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-m /models/ggml-base.bin",
		"-l en",
		"-otxt",
		"-f in.wav",
		"-of /tmp/out/transcript",
		"-t 4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}

	// Request-level language and prompt win over config.
	args = p.buildArgs(&provider.TranscriptionRequest{Language: "de", Prompt: "tech talk"}, "in.wav", "out")
	joined = strings.Join(args, " ")
	if !strings.Contains(joined, "-l de") {
		t.Errorf("args %q missing request language", joined)
	}
	if !strings.Contains(joined, "--prompt tech talk") {
		t.Errorf("args %q missing request prompt", joined)
	}
}

func TestProvider_Transcript(t *testing.T) {
	p := New(Config{
		BinaryPath: fakeTranscribingBinary(t, "hello from whisper.cpp"),
		ModelPath:  writeFakeModel(t),
	})

	text, err := p.Transcript(writeFakeAudio(t, "clip.wav"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "hello from whisper.cpp" {
		t.Errorf("Unexpected transcript: %q", text)
	}
}

func TestProvider_TranscriptWithOptions_Errors(t *testing.T) {
	t.Run("missing file path", func(t *testing.T) {
		p := New(Config{BinaryPath: "/opt/whisper/main", ModelPath: "/models/m.bin"})

		_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{})
		assertTranscriptionError(t, err, "invalid_input", false)
	})

	t.Run("file not found", func(t *testing.T) {
		p := New(Config{BinaryPath: "/opt/whisper/main", ModelPath: "/models/m.bin"})

		_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
			InputFilePath: filepath.Join(t.TempDir(), "missing.wav"),
		})
		assertTranscriptionError(t, err, "file_not_found", false)
	})

	t.Run("binary failure is retryable", func(t *testing.T) {
		p := New(Config{
			BinaryPath: writeFakeBinary(t, `echo "model load failed" >&2; exit 1`),
			ModelPath:  writeFakeModel(t),
		})

		_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
			InputFilePath: writeFakeAudio(t, "clip.wav"),
		})
		assertTranscriptionError(t, err, "transcription_failed", true)

		var transcriptErr *provider.TranscriptionError
		errors.As(err, &transcriptErr)
		if !strings.Contains(transcriptErr.Message, "model load failed") {
			t.Errorf("error should carry stderr, got %q", transcriptErr.Message)
		}
	})

	t.Run("empty output", func(t *testing.T) {
		p := New(Config{
			BinaryPath: fakeTranscribingBinary(t, ""),
			ModelPath:  writeFakeModel(t),
		})

		_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
			InputFilePath: writeFakeAudio(t, "clip.wav"),
		})
		assertTranscriptionError(t, err, "empty_transcription", false)
	})

	t.Run("timeout cancels the run", func(t *testing.T) {
		p := New(Config{
			BinaryPath: writeFakeBinary(t, "sleep 5"),
			ModelPath:  writeFakeModel(t),
			Timeout:    50 * time.Millisecond,
		})

		_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
			InputFilePath: writeFakeAudio(t, "clip.wav"),
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected context.DeadlineExceeded, got %v", err)
		}
	})
}

func assertTranscriptionError(t *testing.T, err error, code string, retryable bool) {
	t.Helper()

	if err == nil {
		t.Fatal("Expected error, got none")
	}
	var transcriptErr *provider.TranscriptionError
	if !errors.As(err, &transcriptErr) {
		t.Fatalf("Expected *provider.TranscriptionError, got %T: %v", err, err)
	}
	if transcriptErr.Code != code {
		t.Errorf("Expected error code %q, got %q", code, transcriptErr.Code)
	}
	if transcriptErr.Retryable != retryable {
		t.Errorf("Expected retryable=%v, got %v", retryable, transcriptErr.Retryable)
	}
}

func TestProvider_ValidateConfiguration(t *testing.T) {
	binary := writeFakeBinary(t, "exit 0")
	model := writeFakeModel(t)

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid", config: Config{BinaryPath: binary, ModelPath: model}},
		{name: "missing binary path", config: Config{ModelPath: model}, wantErr: true},
		{name: "missing model path", config: Config{BinaryPath: binary}, wantErr: true},
		{name: "binary does not exist", config: Config{BinaryPath: "/nonexistent/main", ModelPath: model}, wantErr: true},
		{name: "model does not exist", config: Config{BinaryPath: binary, ModelPath: "/nonexistent/m.bin"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.config).ValidateConfiguration()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfiguration() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProvider_GetProviderInfo(t *testing.T) {
	info := New(Config{BinaryPath: "/opt/whisper/main", ModelPath: "/models/m.bin"}).GetProviderInfo()

	if info.Name != "whisper_cpp" {
		t.Errorf("Unexpected name: %s", info.Name)
	}
	if info.Type != provider.ProviderTypeLocal {
		t.Errorf("Expected local provider, got %s", info.Type)
	}
	if info.RequiresAPIKey || info.RequiresInternet {
		t.Error("Local binary provider should need neither internet nor an API key")
	}
}

func TestCreateProvider_RequiredSettings(t *testing.T) {
	if _, err := createProvider(map[string]interface{}{"model_path": "/m.bin"}); err == nil {
		t.Error("Expected error without binary_path")
	}
	if _, err := createProvider(map[string]interface{}{"binary_path": "/main"}); err == nil {
		t.Error("Expected error without model_path")
	}

	p, err := createProvider(map[string]interface{}{
		"binary_path": "/opt/whisper/main",
		"model_path":  "/models/ggml-base.bin",
		"language":    "en",
		"threads":     8,
		"timeout_sec": 600,
	})
	if err != nil {
		t.Fatalf("createProvider failed: %v", err)
	}
	if p.GetProviderInfo().Name != "whisper_cpp" {
		t.Errorf("Unexpected provider name: %s", p.GetProviderInfo().Name)
	}
}
