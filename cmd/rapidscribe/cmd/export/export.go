package export

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"rapidscribe/internal/app"
	"rapidscribe/internal/app/batch/export"
)

var collection string
var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&collection, "collection", "c", "", "collection to export")
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "path of the excel file to write")

	Cmd.MarkFlagRequired("collection")
	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a collection's transcripts to excel",
	Long: `Export a collection's transcripts to excel

- Writes every transcript of the collection, currently without a row limit`,
	Run: func(cmd *cobra.Command, args []string) {
		store, cleanup, err := app.InitializeStore()
		if err != nil {
			log.Fatalf("Failed to open transcript store: %v", err)
		}
		defer cleanup()

		transcripts, err := store.GetAllByCollection(context.Background(), collection)
		if err != nil {
			log.Fatal(err)
		}
		if len(transcripts) == 0 {
			log.Fatalf("no transcripts found for collection %q", collection)
		}

		if err := export.ToExcel(transcripts, outputFilePath); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("export finished, %d transcripts written to %v\n", len(transcripts), outputFilePath)
	},
}
