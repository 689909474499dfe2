package migrate

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"rapidscribe/internal/app/repository/migrate"
	"rapidscribe/internal/app/repository/sqlite"
	"rapidscribe/internal/config"
)

var (
	sqlitePath     string
	postgresDSN    string
	checkpointPath string
)

func init() {
	Cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "sqlite database to migrate from, defaults to the data dir store")
	Cmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "postgres DSN to migrate into, defaults to DATABASE_URL / DB_* vars")
	Cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "checkpoint file for resumable runs")
}

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the sqlite store into postgres",
	Long: `Copy the sqlite store into postgres

- Transcripts and exchanges are copied in batches, preserving ids
- Progress is checkpointed, an interrupted run resumes without duplicates`,
	Run: func(cmd *cobra.Command, args []string) {
		if sqlitePath == "" {
			sqlitePath = sqlite.DefaultDBPath(config.LoadSettings().DataDir)
		}
		if postgresDSN == "" {
			postgresDSN = config.GetServerConfig().GetPostgresConnectionString()
		}

		copied, err := migrate.Run(context.Background(), migrate.Options{
			SQLitePath:     sqlitePath,
			PostgresDSN:    postgresDSN,
			CheckpointPath: checkpointPath,
		})
		if err != nil {
			log.Fatalf("Migration failed (%d rows copied): %v", copied, err)
		}
		fmt.Printf("migration finished, %d rows copied\n", copied)
	},
}
