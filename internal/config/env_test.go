package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("BASE_URL", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEFAULT_MODEL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("AUDIO_DIR", "")
	t.Setenv("DATA_DIR", "")

	s := LoadSettings()

	assert.Equal(t, "http://broken", s.BaseURL)
	assert.Equal(t, "anything", s.APIKey)
	assert.Equal(t, "ai/gemma3n", s.DefaultModel)
	assert.Equal(t, "audio", s.AudioDir)
	assert.Equal(t, "data", s.DataDir)
	assert.Empty(t, s.GeminiAPIKey)
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("BASE_URL", "http://localhost:12434/engines/v1")
	t.Setenv("OPENAI_API_KEY", "  local-key  ")
	t.Setenv("DEFAULT_MODEL", "ai/smollm2")
	t.Setenv("AUDIO_DIR", "/srv/audio")

	s := LoadSettings()

	assert.Equal(t, "http://localhost:12434/engines/v1", s.BaseURL)
	assert.Equal(t, "local-key", s.APIKey)
	assert.Equal(t, "ai/smollm2", s.DefaultModel)
	assert.Equal(t, "/srv/audio", s.AudioDir)
}

func TestSettingsValidate(t *testing.T) {
	testCases := []struct {
		name          string
		settings      Settings
		expectError   bool
		errorContains string
	}{
		{
			name:     "custom base URL accepts any key",
			settings: Settings{BaseURL: "http://localhost:12434/v1", APIKey: "anything"},
		},
		{
			name:     "poison default passes validation",
			settings: Settings{BaseURL: DefaultBaseURL, APIKey: DefaultAPIKey},
		},
		{
			name: "hosted OpenAI with valid key",
			settings: Settings{
				BaseURL: "https://api.openai.com/v1",
				APIKey:  "sk-1234567890abcdef1234567890abcdef",
			},
		},
		{
			name: "hosted OpenAI rejects placeholder key",
			settings: Settings{
				BaseURL: "https://api.openai.com/v1",
				APIKey:  "anything",
			},
			expectError:   true,
			errorContains: "must start with 'sk-'",
		},
		{
			name: "hosted OpenAI rejects short key",
			settings: Settings{
				BaseURL: "https://api.openai.com/v1",
				APIKey:  "sk-short",
			},
			expectError:   true,
			errorContains: "too short",
		},
		{
			name: "gemini key with wrong prefix",
			settings: Settings{
				BaseURL:      DefaultBaseURL,
				APIKey:       DefaultAPIKey,
				GeminiAPIKey: "wrong-prefix-1234567890abcdef12345",
			},
			expectError:   true,
			errorContains: "must start with 'AIza'",
		},
		{
			name: "valid gemini key",
			settings: Settings{
				BaseURL:      DefaultBaseURL,
				APIKey:       DefaultAPIKey,
				GeminiAPIKey: "AIzaTest-1234567890abcdef1234567890",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.settings.Validate()
			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot()
	require.NoError(t, err)
	assert.NotEmpty(t, root)
}
