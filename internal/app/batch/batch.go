// Package batch transcribes whole directories of media files: walk, dedupe
// against the repository, convert video containers to mp3, transcribe with
// bounded parallelism, and record every outcome.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"rapidscribe/internal/app/api"
	"rapidscribe/internal/app/audio"
	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/app/util/files"
	"rapidscribe/internal/app/utils"
	"rapidscribe/internal/logger"
)

var videoExts = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".flv":  true,
}

// Options tunes one batch run.
type Options struct {
	// Parallel caps concurrent transcriptions. Zero or less means 1.
	Parallel int
	// Limit caps how many unprocessed files get picked up. Zero means all.
	Limit int
	// OutputDir, when set, additionally writes each transcript to
	// <OutputDir>/<file>.txt.
	OutputDir string
	Progress  ProgressConfig
}

// Result is the outcome for a single file.
type Result struct {
	File         string
	TranscriptID int
	Text         string
	Err          error
}

// Summary aggregates a run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Failures  []Result
}

// Batcher drives batch transcription against one collection store.
type Batcher struct {
	transcriber api.Transcriber
	db          repository.TranscriptDAO
	mp3Root     string
	log         *zap.Logger
}

// NewBatcher wires a batch pipeline. mp3Root is where extracted audio tracks
// of video inputs are kept, one subdirectory per collection.
func NewBatcher(transcriber api.Transcriber, db repository.TranscriptDAO, mp3Root string) *Batcher {
	return &Batcher{
		transcriber: transcriber,
		db:          db,
		mp3Root:     mp3Root,
		log:         logger.MustNew("batch"),
	}
}

func (b *Batcher) Close() error {
	return b.db.Close()
}

// TranscribeDir walks inputDir for the given extensions, skips files the
// repository already holds for this collection, and transcribes the rest.
func (b *Batcher) TranscribeDir(ctx context.Context, collection, inputDir string, extensions []string, opts Options) (*Summary, error) {
	if collection == "" {
		return nil, apperrors.RequiredField("collection")
	}

	fileInfos, err := files.ListFilesByExt(inputDir, normalizeExts(extensions)...)
	if err != nil {
		return nil, err
	}

	toProcess, skipped := b.filterUnprocessed(ctx, collection, fileInfos, opts.Limit)
	b.log.Info("batch scan finished",
		zap.String("collection", collection),
		zap.String("dir", inputDir),
		zap.Int("found", len(fileInfos)),
		zap.Int("skipped", skipped),
		zap.Int("to_process", len(toProcess)))

	summary := b.run(ctx, collection, toProcess, opts)
	summary.Skipped = skipped
	summary.Total = len(fileInfos)
	return summary, nil
}

// TranscribeFiles processes an explicit list of paths. Explicitly named files
// are always processed, even when the repository has seen them before.
func (b *Batcher) TranscribeFiles(ctx context.Context, collection string, paths []string, opts Options) (*Summary, error) {
	if collection == "" {
		return nil, apperrors.RequiredField("collection")
	}

	fileInfos := make([]model.FileInfo, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		fileInfos = append(fileInfos, model.FileInfo{
			FullPath: p,
			Name:     filepath.Base(p),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	summary := b.run(ctx, collection, fileInfos, opts)
	summary.Total = len(fileInfos)
	return summary, nil
}

func (b *Batcher) filterUnprocessed(ctx context.Context, collection string, fileInfos []model.FileInfo, limit int) ([]model.FileInfo, int) {
	toProcess := make([]model.FileInfo, 0, len(fileInfos))
	skipped := 0

	for _, fi := range fileInfos {
		id, err := b.db.FindProcessed(ctx, collection, fi.Name)
		if err == nil {
			b.log.Info("already transcribed, skipping",
				zap.String("file", fi.Name), zap.Int("transcript_id", id))
			skipped++
			continue
		}
		if !errors.Is(err, apperrors.ErrRecordNotFound) {
			b.log.Warn("dedupe lookup failed, processing anyway",
				zap.String("file", fi.Name), zap.Error(err))
		}

		toProcess = append(toProcess, fi)
		if limit > 0 && len(toProcess) >= limit {
			break
		}
	}
	return toProcess, skipped
}

func (b *Batcher) run(ctx context.Context, collection string, fileInfos []model.FileInfo, opts Options) *Summary {
	if len(fileInfos) == 0 {
		return &Summary{}
	}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	pm := NewProgressManager(opts.Progress)
	bar := pm.CreateBar(len(fileInfos), describeRun(collection))
	defer pm.Wait()

	results := make([]Result, len(fileInfos))
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup

	for i, fi := range fileInfos {
		wg.Add(1)
		go func(i int, fi model.FileInfo) {
			defer wg.Done()
			defer bar.Increment()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = b.transcribeOne(ctx, collection, fi, opts)
		}(i, fi)
	}
	wg.Wait()
	bar.Complete()

	summary := &Summary{
		Succeeded: lo.CountBy(results, func(r Result) bool { return r.Err == nil }),
		Failed:    lo.CountBy(results, func(r Result) bool { return r.Err != nil }),
		Failures:  lo.Filter(results, func(r Result, _ int) bool { return r.Err != nil }),
	}
	return summary
}

func (b *Batcher) transcribeOne(ctx context.Context, collection string, file model.FileInfo, opts Options) Result {
	if err := ctx.Err(); err != nil {
		return Result{File: file.Name, Err: err}
	}

	audioPath := file.FullPath
	audioFileName := file.Name

	if videoExts[strings.ToLower(filepath.Ext(file.Name))] {
		converted, err := b.extractAudioTrack(ctx, collection, file)
		if err != nil {
			b.recordFailure(ctx, collection, file, audioFileName, 0, err)
			return Result{File: file.Name, Err: err}
		}
		audioPath = converted
		audioFileName = filepath.Base(converted)
	}

	// Duration is metadata; a probe failure should not block transcription
	// on installs without ffprobe.
	duration := 0
	if seconds, err := audio.GetAudioDuration(ctx, audioPath); err != nil {
		b.log.Warn("could not probe duration", zap.String("file", audioFileName), zap.Error(err))
	} else {
		duration = seconds
	}

	text, err := b.transcriber.Transcript(audioPath)
	if err != nil {
		wrapped := fmt.Errorf("transcription of %s: %w", file.Name, err)
		b.recordFailure(ctx, collection, file, audioFileName, duration, wrapped)
		return Result{File: file.Name, Err: wrapped}
	}

	transcript := &model.Transcript{
		Collection:    collection,
		InputDir:      filepath.Dir(file.FullPath),
		FileName:      file.Name,
		AudioFileName: audioFileName,
		AudioDuration: float64(duration),
		Text:          text,
		FileSize:      file.Size,
	}
	if hash, err := utils.FileSHA256(file.FullPath); err == nil {
		transcript.FileHash = hash
	}

	id, err := b.db.SaveTranscript(ctx, transcript)
	if err != nil {
		b.log.Error("failed to persist transcript",
			zap.String("file", file.Name), zap.Error(err))
		return Result{File: file.Name, Text: text, Err: err}
	}

	if opts.OutputDir != "" {
		if err := writeTranscriptFile(opts.OutputDir, file.Name, text); err != nil {
			b.log.Warn("failed to write transcript file",
				zap.String("file", file.Name), zap.Error(err))
		}
	}

	b.log.Info("transcribed",
		zap.String("file", file.Name),
		zap.Int("transcript_id", id),
		zap.Int("duration_s", duration),
		zap.Int("chars", len(text)))
	return Result{File: file.Name, TranscriptID: id, Text: text}
}

// extractAudioTrack converts a video input to mp3 under
// <mp3Root>/<collection>/, reusing an earlier conversion when present.
func (b *Batcher) extractAudioTrack(ctx context.Context, collection string, file model.FileInfo) (string, error) {
	ext := filepath.Ext(file.Name)
	mp3Name := strings.TrimSuffix(file.Name, ext) + ".mp3"
	mp3Path := filepath.Join(b.mp3Root, collection, mp3Name)

	if err := audio.ConvertToMp3(ctx, file.FullPath, mp3Path); err != nil {
		return "", err
	}
	return mp3Path, nil
}

func (b *Batcher) recordFailure(ctx context.Context, collection string, file model.FileInfo, audioFileName string, duration int, cause error) {
	transcript := &model.Transcript{
		Collection:    collection,
		InputDir:      filepath.Dir(file.FullPath),
		FileName:      file.Name,
		AudioFileName: audioFileName,
		AudioDuration: float64(duration),
		FileSize:      file.Size,
		HasError:      1,
		ErrorMessage:  cause.Error(),
	}
	if _, err := b.db.SaveTranscript(ctx, transcript); err != nil {
		b.log.Error("failed to record transcription failure",
			zap.String("file", file.Name), zap.Error(err))
	}
}

func writeTranscriptFile(outputDir, fileName, text string) error {
	if err := files.EnsureDir(outputDir); err != nil {
		return err
	}
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	path := filepath.Join(outputDir, base+".txt")
	return os.WriteFile(path, []byte(text), 0o644)
}

func normalizeExts(extensions []string) []string {
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(strings.ToLower(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func describeRun(collection string) string {
	if collection == "" {
		return "Transcribing"
	}
	return fmt.Sprintf("Transcribing (%s)", collection)
}

// ReportSummary logs the run outcome in one line plus one line per failure.
func (b *Batcher) ReportSummary(summary *Summary, elapsed time.Duration) {
	b.log.Info("batch finished",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("elapsed", elapsed))
	for _, failure := range summary.Failures {
		b.log.Warn("file failed", zap.String("file", failure.File), zap.Error(failure.Err))
	}
}
