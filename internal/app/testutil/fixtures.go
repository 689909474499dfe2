package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rapidscribe/internal/app/model"
)

// minimal RIFF/WAVE header: PCM, mono, 16 kHz, 16-bit, 2048 data bytes
var wavHeader = []byte{
	0x52, 0x49, 0x46, 0x46, // "RIFF"
	0x24, 0x08, 0x00, 0x00,
	0x57, 0x41, 0x56, 0x45, // "WAVE"
	0x66, 0x6D, 0x74, 0x20, // "fmt "
	0x10, 0x00, 0x00, 0x00,
	0x01, 0x00,
	0x01, 0x00,
	0x80, 0x3E, 0x00, 0x00,
	0x00, 0x7D, 0x00, 0x00,
	0x02, 0x00,
	0x10, 0x00,
	0x64, 0x61, 0x74, 0x61, // "data"
	0x00, 0x08, 0x00, 0x00,
}

// CreateTestAudioFile writes a minimal valid WAV file into a temp dir and
// returns its path.
func CreateTestAudioFile(t *testing.T, name string) string {
	t.Helper()

	fullPath := filepath.Join(t.TempDir(), filepath.Base(name))
	data := append(append([]byte{}, wavHeader...), make([]byte, 2048)...)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		t.Fatalf("create test audio file: %v", err)
	}
	return fullPath
}

// CreateTestAudioFileIn writes the same WAV fixture under dir with the given
// name, for tests that need several files in one directory.
func CreateTestAudioFileIn(t *testing.T, dir, name string) string {
	t.Helper()

	fullPath := filepath.Join(dir, name)
	data := append(append([]byte{}, wavHeader...), make([]byte, 2048)...)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		t.Fatalf("create test audio file: %v", err)
	}
	return fullPath
}

// CreateCorruptedAudioFile writes a file that is not valid audio.
func CreateCorruptedAudioFile(t *testing.T, name string) string {
	t.Helper()

	fullPath := filepath.Join(t.TempDir(), filepath.Base(name))
	if err := os.WriteFile(fullPath, []byte("this is not audio"), 0o644); err != nil {
		t.Fatalf("create corrupted file: %v", err)
	}
	return fullPath
}

// GenerateTranscript builds a stored transcript for fixtures.
func GenerateTranscript(id int, collection, fileName string, duration float64, text string) model.Transcript {
	now := time.Now()
	return model.Transcript{
		ID:            id,
		Collection:    collection,
		FileName:      fileName,
		AudioFileName: fileName,
		AudioDuration: duration,
		Text:          text,
		Provider:      "openai",
		ModelName:     "whisper-1",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
