package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"rapidscribe/internal/app/model"
	"rapidscribe/internal/logger"

	"go.uber.org/zap"
)

var audioLog = logger.MustNew("audio")

// GetAudioDuration probes the file with ffprobe and returns the duration in
// seconds, rounded to the nearest whole second.
func GetAudioDuration(ctx context.Context, filePath string) (int, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w: %s", filePath, err, snippet(stderr.Bytes()))
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(stdout.String()), err)
	}
	return int(math.Round(seconds)), nil
}

// ConvertToMp3 extracts the audio track of inputPath into an mp3 at mp3Path.
// Conversion is skipped when mp3Path already exists so a re-run of a batch
// does not redo finished work.
func ConvertToMp3(ctx context.Context, inputPath string, mp3Path string) error {
	if _, err := os.Stat(mp3Path); err == nil {
		audioLog.Info("mp3 already exists, skipping conversion", zap.String("path", mp3Path))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(mp3Path), 0o755); err != nil {
		return fmt.Errorf("create mp3 dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", inputPath, "-vn", "-acodec", "libmp3lame", mp3Path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	audioLog.Info("extracting mp3", zap.String("input", inputPath), zap.String("output", mp3Path))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg mp3 conversion of %s: %w: %s", inputPath, err, snippet(stderr.Bytes()))
	}
	return nil
}

// Is16kHzWavFile reports whether the file already is a 16 kHz pcm_s16le wav,
// the input format local whisper.cpp builds expect.
func Is16kHzWavFile(ctx context.Context, filePath string) (bool, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		filePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("ffprobe %s: %w: %s", filePath, err, snippet(stderr.Bytes()))
	}
	return probeSays16kHzWav(stdout.Bytes())
}

func probeSays16kHzWav(probeJSON []byte) (bool, error) {
	var probe model.FFProbeOutput
	if err := json.Unmarshal(probeJSON, &probe); err != nil {
		return false, fmt.Errorf("parse ffprobe output: %w", err)
	}
	for _, stream := range probe.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 {
			return true, nil
		}
	}
	return false, nil
}

// SupportedConversionExt lists the inputs ConvertTo16kHzWav accepts.
var supportedConversionExts = map[string]bool{
	".mp3": true,
	".m4a": true,
	".wav": true,
}

// ConvertTo16kHzWav resamples the input to the mono 16 kHz pcm wav that local
// whisper.cpp models require and returns the path of the converted file. A
// file that already satisfies the format is returned unchanged.
func ConvertTo16kHzWav(ctx context.Context, inputFilePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(inputFilePath))
	if !supportedConversionExts[ext] {
		return "", fmt.Errorf("unsupported input format %q, expect .mp3, .m4a or .wav", ext)
	}

	if ext == ".wav" {
		ok, err := Is16kHzWavFile(ctx, inputFilePath)
		if err != nil {
			return "", err
		}
		if ok {
			return inputFilePath, nil
		}
	}

	outputFilePath := WavOutputPath(inputFilePath)
	if _, err := os.Stat(outputFilePath); err == nil {
		return outputFilePath, nil
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputFilePath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outputFilePath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	audioLog.Info("resampling to 16kHz wav", zap.String("input", inputFilePath), zap.String("output", outputFilePath))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg 16kHz conversion of %s: %w: %s", inputFilePath, err, snippet(stderr.Bytes()))
	}
	return outputFilePath, nil
}

// WavOutputPath derives the target path ConvertTo16kHzWav writes to.
func WavOutputPath(inputFilePath string) string {
	ext := filepath.Ext(inputFilePath)
	return strings.TrimSuffix(inputFilePath, ext) + "_16khz.wav"
}

// snippet trims command output down to something that fits in an error value.
func snippet(out []byte) string {
	s := strings.TrimSpace(string(out))
	const max = 400
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
