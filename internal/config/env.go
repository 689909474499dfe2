package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Default client settings. The base URL default is deliberately unreachable so
// an unconfigured deployment fails fast and visibly instead of calling a paid
// endpoint by accident. Local OpenAI-compatible servers ignore the API key, so
// any non-empty placeholder works there.
const (
	DefaultBaseURL   = "http://broken"
	DefaultAPIKey    = "anything"
	DefaultChatModel = "ai/gemma3n"

	DefaultAudioDir = "audio"
	DefaultDataDir  = "data"
)

// Settings holds the LLM client and path configuration loaded from the
// environment.
type Settings struct {
	BaseURL      string
	APIKey       string
	DefaultModel string
	GeminiAPIKey string
	AudioDir     string
	DataDir      string
}

// LoadEnv loads environment variables from a .env file if one exists. Missing
// files are not an error; variables may be set system-wide instead.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// LoadSettings reads client settings from the environment, applying defaults
// for anything unset.
func LoadSettings() *Settings {
	return &Settings{
		BaseURL:      getEnvOrDefault("BASE_URL", DefaultBaseURL),
		APIKey:       getEnvOrDefault("OPENAI_API_KEY", DefaultAPIKey),
		DefaultModel: getEnvOrDefault("DEFAULT_MODEL", DefaultChatModel),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		AudioDir:     getEnvOrDefault("AUDIO_DIR", DefaultAudioDir),
		DataDir:      getEnvOrDefault("DATA_DIR", DefaultDataDir),
	}
}

// Validate checks key formats, but only for endpoints where the format is
// known. Custom base URLs accept any key.
func (s *Settings) Validate() error {
	if strings.Contains(s.BaseURL, "api.openai.com") {
		if !strings.HasPrefix(s.APIKey, "sk-") {
			return fmt.Errorf("invalid OPENAI_API_KEY format for api.openai.com: must start with 'sk-'")
		}
		if len(s.APIKey) < 20 {
			return fmt.Errorf("invalid OPENAI_API_KEY format: too short")
		}
	}

	if s.GeminiAPIKey != "" {
		if !strings.HasPrefix(s.GeminiAPIKey, "AIza") {
			return fmt.Errorf("invalid GEMINI_API_KEY format: must start with 'AIza'")
		}
		if len(s.GeminiAPIKey) < 30 {
			return fmt.Errorf("invalid GEMINI_API_KEY format: too short")
		}
	}

	return nil
}

// GetProjectRoot finds the project root directory by looking for go.mod.
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod not found)")
}

// InitializeConfig loads the environment and returns validated settings. This
// is the main entry point for configuration loading.
func InitializeConfig() (*Settings, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	settings := LoadSettings()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
