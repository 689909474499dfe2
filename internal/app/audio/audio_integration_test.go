//go:build integration

package audio

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// These tests shell out to real ffmpeg/ffprobe binaries.
// Run with: go test -tags=integration ./internal/app/audio/

func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed, skipping", bin)
		}
	}
}

// makeTestTone synthesizes a short sine wave so the tests do not depend on
// checked-in media files.
func makeTestTone(t *testing.T, dir, name string) string {
	t.Helper()
	out := filepath.Join(dir, name)
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi",
		"-i", "sine=frequency=440:duration=2",
		out)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("synthesize %s: %v: %s", name, err, output)
	}
	return out
}

func TestGetAudioDurationIntegration(t *testing.T) {
	requireFFmpeg(t)
	tone := makeTestTone(t, t.TempDir(), "tone.mp3")

	seconds, err := GetAudioDuration(context.Background(), tone)
	if err != nil {
		t.Fatalf("GetAudioDuration: %v", err)
	}
	if seconds != 2 {
		t.Errorf("duration = %d, want 2", seconds)
	}
}

func TestConvertTo16kHzWavIntegration(t *testing.T) {
	requireFFmpeg(t)
	tone := makeTestTone(t, t.TempDir(), "tone.mp3")

	converted, err := ConvertTo16kHzWav(context.Background(), tone)
	if err != nil {
		t.Fatalf("ConvertTo16kHzWav: %v", err)
	}
	if converted == tone {
		t.Fatal("mp3 input should produce a new wav file")
	}

	ok, err := Is16kHzWavFile(context.Background(), converted)
	if err != nil {
		t.Fatalf("Is16kHzWavFile: %v", err)
	}
	if !ok {
		t.Error("converted file should be a 16kHz pcm wav")
	}

	// Second call finds the existing output and returns it without converting.
	again, err := ConvertTo16kHzWav(context.Background(), tone)
	if err != nil {
		t.Fatalf("second ConvertTo16kHzWav: %v", err)
	}
	if again != converted {
		t.Errorf("expected cached path %s, got %s", converted, again)
	}
}

func TestConvertTo16kHzWavReturnsCompliantInputUnchanged(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	tone := makeTestTone(t, dir, "tone.mp3")

	converted, err := ConvertTo16kHzWav(context.Background(), tone)
	if err != nil {
		t.Fatalf("ConvertTo16kHzWav: %v", err)
	}

	same, err := ConvertTo16kHzWav(context.Background(), converted)
	if err != nil {
		t.Fatalf("ConvertTo16kHzWav on compliant wav: %v", err)
	}
	if same != converted {
		t.Errorf("compliant wav should come back unchanged, got %s", same)
	}
}

func TestConvertToMp3Integration(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	tone := makeTestTone(t, dir, "tone.wav")
	mp3Path := filepath.Join(dir, "out", "tone.mp3")

	if err := ConvertToMp3(context.Background(), tone, mp3Path); err != nil {
		t.Fatalf("ConvertToMp3: %v", err)
	}
	info, err := os.Stat(mp3Path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("converted mp3 is empty")
	}

	// Existing output short-circuits the conversion.
	before := info.ModTime()
	if err := ConvertToMp3(context.Background(), tone, mp3Path); err != nil {
		t.Fatalf("second ConvertToMp3: %v", err)
	}
	after, _ := os.Stat(mp3Path)
	if !after.ModTime().Equal(before) {
		t.Error("existing mp3 should not be rewritten")
	}
}
