package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidscribe/internal/app/testutil"
)

func newTestBatcher(t *testing.T, transcriber *testutil.MockTranscriber, store *testutil.MockStore) *Batcher {
	t.Helper()
	t.Setenv("LOG_DIR", t.TempDir())
	return NewBatcher(transcriber, store, filepath.Join(t.TempDir(), "mp3"))
}

func writeInputFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, testutil.CreateTestAudioFileIn(t, dir, name))
	}
	return paths
}

func TestTranscribeDir(t *testing.T) {
	tests := []struct {
		name          string
		files         []string
		extensions    []string
		opts          Options
		setupStore    func(*testutil.MockStore)
		wantSucceeded int
		wantSkipped   int
		wantCalls     int
	}{
		{
			name:          "all files sequential",
			files:         []string{"a.mp3", "b.mp3", "c.mp3"},
			extensions:    []string{"mp3"},
			opts:          Options{Parallel: 1},
			wantSucceeded: 3,
			wantCalls:     3,
		},
		{
			name:          "parallel run",
			files:         []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3"},
			extensions:    []string{"mp3"},
			opts:          Options{Parallel: 4},
			wantSucceeded: 4,
			wantCalls:     4,
		},
		{
			name:       "extension filter",
			files:      []string{"a.mp3", "b.wav", "notes.txt"},
			extensions: []string{".wav"},
			opts:       Options{Parallel: 1},
			// Only b.wav matches.
			wantSucceeded: 1,
			wantCalls:     1,
		},
		{
			name:       "already processed files are skipped",
			files:      []string{"a.mp3", "b.mp3"},
			extensions: []string{"mp3"},
			opts:       Options{Parallel: 1},
			setupStore: func(s *testutil.MockStore) {
				s.WithProcessedFile("podcast", "a.mp3", 11)
			},
			wantSucceeded: 1,
			wantSkipped:   1,
			wantCalls:     1,
		},
		{
			name:          "limit caps the batch",
			files:         []string{"a.mp3", "b.mp3", "c.mp3"},
			extensions:    []string{"mp3"},
			opts:          Options{Parallel: 1, Limit: 2},
			wantSucceeded: 2,
			wantCalls:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputDir := t.TempDir()
			writeInputFiles(t, inputDir, tt.files...)

			transcriber := testutil.NewMockTranscriber().WithDefaultResponse("the transcript")
			store := testutil.NewMockStore()
			if tt.setupStore != nil {
				tt.setupStore(store)
			}
			batcher := newTestBatcher(t, transcriber, store)

			summary, err := batcher.TranscribeDir(context.Background(), "podcast", inputDir, tt.extensions, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSucceeded, summary.Succeeded)
			assert.Equal(t, tt.wantSkipped, summary.Skipped)
			assert.Equal(t, 0, summary.Failed)
			assert.Equal(t, tt.wantCalls, transcriber.CallCount())
		})
	}
}

func TestTranscribeDirRecordsResults(t *testing.T) {
	inputDir := t.TempDir()
	audioPath := writeInputFiles(t, inputDir, "episode.mp3")[0]

	transcriber := testutil.NewMockTranscriber().WithResponse(audioPath, "what was said")
	store := testutil.NewMockStore()
	batcher := newTestBatcher(t, transcriber, store)

	summary, err := batcher.TranscribeDir(context.Background(), "interviews", inputDir, []string{"mp3"}, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded)

	saved := store.SavedTranscripts()
	require.Len(t, saved, 1)
	assert.Equal(t, "interviews", saved[0].Collection)
	assert.Equal(t, "episode.mp3", saved[0].FileName)
	assert.Equal(t, "what was said", saved[0].Text)
	assert.Equal(t, 0, saved[0].HasError)
	assert.NotEmpty(t, saved[0].FileHash)
	assert.Equal(t, inputDir, saved[0].InputDir)
}

func TestTranscribeDirFailuresAreRecordedAndDoNotStopTheBatch(t *testing.T) {
	inputDir := t.TempDir()
	paths := writeInputFiles(t, inputDir, "bad.mp3", "good.mp3")

	transcriber := testutil.NewMockTranscriber().
		WithDefaultResponse("fine").
		WithError(paths[0], errors.New("connection reset"))
	store := testutil.NewMockStore()
	batcher := newTestBatcher(t, transcriber, store)

	summary, err := batcher.TranscribeDir(context.Background(), "podcast", inputDir, []string{"mp3"}, Options{Parallel: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "bad.mp3", summary.Failures[0].File)
	assert.ErrorContains(t, summary.Failures[0].Err, "connection reset")

	// The failure lands in the store as an error row.
	saved := store.SavedTranscripts()
	require.Len(t, saved, 2)
	var errorRows int
	for _, row := range saved {
		if row.HasError == 1 {
			errorRows++
			assert.Equal(t, "bad.mp3", row.FileName)
			assert.Contains(t, row.ErrorMessage, "connection reset")
		}
	}
	assert.Equal(t, 1, errorRows)
}

func TestTranscribeDirWritesTextFiles(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	writeInputFiles(t, inputDir, "talk.mp3")

	transcriber := testutil.NewMockTranscriber().WithDefaultResponse("the spoken words")
	batcher := newTestBatcher(t, transcriber, testutil.NewMockStore())

	_, err := batcher.TranscribeDir(context.Background(), "podcast", inputDir, []string{"mp3"},
		Options{OutputDir: outputDir})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outputDir, "talk.txt"))
	require.NoError(t, err)
	assert.Equal(t, "the spoken words", string(content))
}

func TestTranscribeFilesIgnoresDedupe(t *testing.T) {
	inputDir := t.TempDir()
	paths := writeInputFiles(t, inputDir, "repeat.mp3")

	transcriber := testutil.NewMockTranscriber().WithDefaultResponse("again")
	store := testutil.NewMockStore().WithProcessedFile("podcast", "repeat.mp3", 1)
	batcher := newTestBatcher(t, transcriber, store)

	summary, err := batcher.TranscribeFiles(context.Background(), "podcast", paths, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, transcriber.CallCount())
}

func TestTranscribeFilesMissingInput(t *testing.T) {
	batcher := newTestBatcher(t, testutil.NewMockTranscriber(), testutil.NewMockStore())

	_, err := batcher.TranscribeFiles(context.Background(), "podcast",
		[]string{"/does/not/exist.mp3"}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat")
}

func TestTranscribeDirRequiresCollection(t *testing.T) {
	batcher := newTestBatcher(t, testutil.NewMockTranscriber(), testutil.NewMockStore())

	_, err := batcher.TranscribeDir(context.Background(), "", t.TempDir(), []string{"mp3"}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection")
}

func TestTranscribeDirCancelledContext(t *testing.T) {
	inputDir := t.TempDir()
	writeInputFiles(t, inputDir, "a.mp3", "b.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transcriber := testutil.NewMockTranscriber()
	batcher := newTestBatcher(t, transcriber, testutil.NewMockStore())

	summary, err := batcher.TranscribeDir(ctx, "podcast", inputDir, []string{"mp3"}, Options{Parallel: 2})
	require.NoError(t, err)

	// Cancellation surfaces per file rather than aborting the walk.
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 0, transcriber.CallCount())
}

func TestParallelRunsRespectTheSemaphore(t *testing.T) {
	inputDir := t.TempDir()
	writeInputFiles(t, inputDir, "a.mp3", "b.mp3", "c.mp3", "d.mp3", "e.mp3", "f.mp3")

	transcriber := testutil.NewMockTranscriber().
		WithDefaultResponse("ok").
		WithLatency(20 * time.Millisecond)
	batcher := newTestBatcher(t, transcriber, testutil.NewMockStore())

	start := time.Now()
	summary, err := batcher.TranscribeDir(context.Background(), "podcast", inputDir, []string{"mp3"}, Options{Parallel: 3})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 6, summary.Succeeded)
	// 6 files at 20ms each with 3 workers needs at least two waves.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestNormalizeExts(t *testing.T) {
	assert.Equal(t, []string{".mp3", ".wav", ".m4a"}, normalizeExts([]string{"mp3", ".WAV", " m4a "}))
	assert.Empty(t, normalizeExts([]string{"", "  "}))
}
