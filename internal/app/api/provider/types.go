package provider

import (
	"path/filepath"
	"strings"
	"time"
)

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatMP3  AudioFormat = "mp3"
	FormatM4A  AudioFormat = "m4a"
	FormatFLAC AudioFormat = "flac"
	FormatOGG  AudioFormat = "ogg"
	FormatWEBM AudioFormat = "webm"
)

// ProviderType defines where a provider runs
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// ProviderKind distinguishes the two provider families.
type ProviderKind string

const (
	KindSpeechToText ProviderKind = "speech_to_text"
	KindChat         ProviderKind = "chat"
)

// TranscriptionRequest carries everything a provider may need for one file.
type TranscriptionRequest struct {
	InputFilePath string `json:"input_file_path"`

	Language string `json:"language,omitempty"` // "en", "zh", "auto", ...
	Model    string `json:"model,omitempty"`    // provider-specific model ID

	Temperature float32 `json:"temperature,omitempty"`
	Prompt      string  `json:"prompt,omitempty"` // context prompt for better accuracy

	// ResponseFormat is one of "text", "json", "verbose_json", "srt", "vtt".
	ResponseFormat string `json:"response_format,omitempty"`

	ProviderOptions map[string]interface{} `json:"provider_options,omitempty"`
}

// TranscriptionResponse is the normalized provider result.
type TranscriptionResponse struct {
	Text string `json:"text"`

	Language   string        `json:"language,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Confidence float32       `json:"confidence,omitempty"`

	Segments []TranscriptionSegment `json:"segments,omitempty"`
	Words    []TranscriptionWord    `json:"words,omitempty"`

	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	ModelUsed      string        `json:"model_used,omitempty"`
}

// TranscriptionSegment is a time-bounded slice of the transcript.
type TranscriptionSegment struct {
	ID    int                 `json:"id"`
	Text  string              `json:"text"`
	Start float64             `json:"start"` // seconds
	End   float64             `json:"end"`   // seconds
	Words []TranscriptionWord `json:"words,omitempty"`
}

// TranscriptionWord is a single word with timing information.
type TranscriptionWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability,omitempty"`
}

// ChatRequest is one chat completion call.
type ChatRequest struct {
	Model        string  `json:"model,omitempty"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	UserPrompt   string  `json:"user_prompt"`
	Temperature  float32 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
}

// ChatResponse is the reply text plus call metadata.
type ChatResponse struct {
	Text           string        `json:"text"`
	ModelUsed      string        `json:"model_used,omitempty"`
	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	TokensUsed     int           `json:"tokens_used,omitempty"`
}

// ProviderInfo contains metadata about a provider.
type ProviderInfo struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Kind        ProviderKind `json:"kind"`
	Type        ProviderType `json:"type"`
	Version     string       `json:"version,omitempty"`

	SupportedFormats   []AudioFormat `json:"supported_formats,omitempty"`
	SupportedLanguages []string      `json:"supported_languages,omitempty"` // empty means all
	MaxFileSizeMB      int           `json:"max_file_size_mb,omitempty"`    // 0 means no limit

	SupportsTimestamps        bool `json:"supports_timestamps,omitempty"`
	SupportsWordLevel         bool `json:"supports_word_level,omitempty"`
	SupportsLanguageDetection bool `json:"supports_language_detection,omitempty"`

	RequiresInternet bool `json:"requires_internet"`
	RequiresAPIKey   bool `json:"requires_api_key"`

	DefaultModel    string   `json:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty"`
}

// TranscriptionError is a provider failure with retry information.
type TranscriptionError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Provider  string `json:"provider"`
	Retryable bool   `json:"retryable"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}

// IsValidAudioFormat checks if the given format is supported
func IsValidAudioFormat(format string) bool {
	switch AudioFormat(strings.ToLower(format)) {
	case FormatWAV, FormatMP3, FormatM4A, FormatFLAC, FormatOGG, FormatWEBM:
		return true
	default:
		return false
	}
}

// AudioFormatFromFilename extracts the audio format from a file name, or ""
// when the extension is not a supported format.
func AudioFormatFromFilename(filename string) AudioFormat {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if IsValidAudioFormat(ext) {
		return AudioFormat(ext)
	}
	return ""
}
