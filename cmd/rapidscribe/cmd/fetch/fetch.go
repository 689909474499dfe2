package fetch

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"rapidscribe/internal/app/batch"
	"rapidscribe/internal/config"
	"rapidscribe/internal/fetcher"
)

var (
	destDir      string
	showProgress bool
)

func init() {
	Cmd.Flags().StringVarP(&destDir, "dir", "d", "",
		"directory to download into, defaults to the audio root")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "force progress bars even without a terminal")
}

// Cmd represents the fetch command
var Cmd = &cobra.Command{
	Use:   "fetch <episode-url>...",
	Short: "Download podcast episodes from their web pages",
	Long: `Download podcast episodes from their web pages

- Reads the OpenGraph meta tags of each page for the audio URL and title
- Files land under <audio root>/<show>/<title>.<ext>, ready for transcribe
- Episodes already on disk with the remote size are skipped`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if destDir == "" {
			destDir = config.LoadSettings().AudioDir
		}

		f := fetcher.New(fetcher.Options{
			ShowProgress: batch.ShouldShowProgress(showProgress),
		})

		results := f.FetchAll(context.Background(), args, destDir)
		succeeded := 0
		for _, result := range results {
			if result.Err != nil {
				fmt.Printf("  failed: %s: %v\n", result.PageURL, result.Err)
				continue
			}
			succeeded++
			fmt.Printf("  saved: %s\n", result.LocalPath)
		}
		fmt.Printf("done: %d of %d episodes fetched\n", succeeded, len(results))

		if succeeded == 0 {
			log.Fatal("no episodes could be fetched")
		}
	},
}
