package transcribe

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rapidscribe/internal/app"
	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/app/batch"
	"rapidscribe/internal/app/temporal/pkg/common"
	"rapidscribe/internal/app/util/files"
)

var (
	collection   string
	inputDir     string
	extensions   string
	parallel     int
	limit        int
	outputDir    string
	providerName string
	language     string
	distributed  bool
	showProgress bool
)

func init() {
	Cmd.Flags().StringVarP(&collection, "collection", "c", "",
		"Which collection owns the files, this parameter affects the 'user' field when they are saved to the database")
	Cmd.Flags().StringVarP(&inputDir, "dir", "d", "",
		"dir specifies the media file directory, example: ./test/data/mp3")
	Cmd.Flags().StringVarP(&extensions, "extensions", "e", "mp3,m4a,wav,mp4",
		"comma-separated file extensions to pick up")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "number of concurrent transcriptions")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "max files to process, 0 for all")
	Cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "also write each transcript to <output-dir>/<file>.txt")
	Cmd.Flags().StringVar(&providerName, "provider", "", "transcription provider to use, overrides the configured default")
	Cmd.Flags().StringVar(&language, "language", "", "audio language hint passed to the provider")
	Cmd.Flags().BoolVar(&distributed, "distributed", false,
		"submit files as Temporal workflows instead of transcribing locally; workers must see the same paths")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "force progress bars even without a terminal")

	Cmd.MarkFlagRequired("collection")
	Cmd.MarkFlagRequired("dir")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe the media files in the specified directory",
	Long: `Transcribe the media files in the specified directory

- Walks the directory for matching extensions, skipping files already recorded
- Video containers are converted to mp3 with ffmpeg before transcription
- Transcripts are saved to the database under the given collection`,
	Run: func(cmd *cobra.Command, args []string) {
		if providerName != "" {
			provider.SetRuntimeConfig(&provider.RuntimeConfig{ProviderName: providerName})
		}

		if distributed {
			runDistributed()
			return
		}
		runLocal()
	},
}

func runLocal() {
	batcher, cleanup, err := app.InitializeBatcher()
	if err != nil {
		log.Fatalf("Failed to initialize batch pipeline: %v", err)
	}
	defer cleanup()

	summary, err := batcher.TranscribeDir(context.Background(), collection, inputDir,
		strings.Split(extensions, ","),
		batch.Options{
			Parallel:  parallel,
			Limit:     limit,
			OutputDir: outputDir,
			Progress:  batch.ProgressConfig{Enabled: batch.ShouldShowProgress(showProgress)},
		})
	if err != nil {
		log.Fatalf("Batch transcription failed: %v", err)
	}

	fmt.Printf("done: %d succeeded, %d failed, %d skipped of %d files\n",
		summary.Succeeded, summary.Failed, summary.Skipped, summary.Total)
	for _, failure := range summary.Failures {
		fmt.Printf("  failed: %s: %v\n", failure.File, failure.Err)
	}
}

func runDistributed() {
	transcriber, err := app.InitializeDistributedTranscriber()
	if err != nil {
		log.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer transcriber.Close()

	exts := strings.Split(extensions, ",")
	for i, ext := range exts {
		exts[i] = "." + strings.TrimPrefix(strings.TrimSpace(ext), ".")
	}
	fileInfos, err := files.ListFilesByExt(inputDir, exts...)
	if err != nil {
		log.Fatalf("Failed to list %s: %v", inputDir, err)
	}
	if limit > 0 && len(fileInfos) > limit {
		fileInfos = fileInfos[:limit]
	}
	if len(fileInfos) == 0 {
		fmt.Println("no matching files")
		return
	}

	requests := make([]common.TranscribeFileRequest, 0, len(fileInfos))
	for _, fi := range fileInfos {
		requests = append(requests, common.TranscribeFileRequest{
			FilePath:   fi.FullPath,
			Collection: collection,
			Provider:   providerName,
			Language:   language,
		})
	}

	ctx := context.Background()
	jobs, err := transcriber.SubmitBatch(ctx, requests)
	if err != nil {
		log.Fatalf("Failed to submit workflows (%d submitted): %v", len(jobs), err)
	}
	fmt.Printf("submitted %d workflows\n", len(jobs))

	failed := 0
	for _, job := range jobs {
		result, err := transcriber.WaitWithProgress(ctx, job.WorkflowID, func(elapsed time.Duration) {
			fmt.Printf("  %s running for %s\n", job.WorkflowID, elapsed.Round(time.Second))
		})
		if err != nil {
			failed++
			fmt.Printf("  failed: %s: %v\n", job.FilePath, err)
			continue
		}
		fmt.Printf("  done: %s (provider %s, transcript %d)\n", job.FilePath, result.Provider, result.TranscriptID)
	}
	fmt.Printf("done: %d succeeded, %d failed\n", len(jobs)-failed, failed)
}
