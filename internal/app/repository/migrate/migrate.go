// Package migrate copies a sqlite store into postgres in resumable batches.
package migrate

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/app/repository/pg"
	"rapidscribe/internal/app/repository/sqlite"
	"rapidscribe/internal/logger"
)

const batchSize = 1000

var migrateLog = logger.MustNew("migrate")

// Options configures one migration run.
type Options struct {
	SQLitePath     string
	PostgresDSN    string
	CheckpointPath string
}

// Run copies transcripts and exchanges from sqlite to postgres, preserving
// ids. Progress is checkpointed after every batch so an interrupted run can
// be resumed without duplicating rows.
func Run(ctx context.Context, opts Options) (int, error) {
	if opts.CheckpointPath == "" {
		opts.CheckpointPath = "migrate_checkpoint.txt"
	}

	src, err := sqlite.Open(opts.SQLitePath)
	if err != nil {
		return 0, fmt.Errorf("open sqlite source: %w", err)
	}
	defer src.Close()

	dst, err := pg.Open(opts.PostgresDSN)
	if err != nil {
		return 0, fmt.Errorf("open postgres target: %w", err)
	}
	defer dst.Close()

	total := 0

	lastID := readCheckpoint(opts.CheckpointPath)
	for {
		n, maxID, err := copyTranscriptBatch(ctx, src, dst, lastID)
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
		total += n
		lastID = maxID
		if err := writeCheckpoint(opts.CheckpointPath, lastID); err != nil {
			return total, fmt.Errorf("write checkpoint: %w", err)
		}
		migrateLog.Info("migrated transcript batch", zap.Int("rows", n), zap.Int("last_id", lastID))
	}

	n, err := copyExchanges(ctx, src, dst)
	if err != nil {
		return total, err
	}
	total += n

	if err := resetSequences(ctx, dst); err != nil {
		return total, err
	}

	migrateLog.Info("migration finished", zap.Int("rows", total))
	return total, nil
}

func copyTranscriptBatch(ctx context.Context, src, dst *repository.SQLStore, lastID int) (int, int, error) {
	rows, err := src.DB().QueryContext(ctx, `
		SELECT id, collection, input_dir, file_name, audio_file_name, audio_duration,
		       text, file_hash, file_size, provider, language, model_name,
		       has_error, error_message, created_at, updated_at
		FROM transcripts
		WHERE id > ? AND deleted_at IS NULL
		ORDER BY id LIMIT ?`, lastID, batchSize)
	if err != nil {
		return 0, lastID, fmt.Errorf("read sqlite transcripts: %w", err)
	}
	defer rows.Close()

	tx, err := dst.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, lastID, fmt.Errorf("begin postgres tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transcripts
			(id, collection, input_dir, file_name, audio_file_name, audio_duration,
			 text, file_hash, file_size, provider, language, model_name,
			 has_error, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return 0, lastID, fmt.Errorf("prepare postgres insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for rows.Next() {
		var (
			id, fileSize, hasError                    int64
			audioDuration                             float64
			collection, inputDir, fileName            string
			audioFileName, text, fileHash             string
			provider, language, modelName, errMessage string
			createdAt, updatedAt                      string
		)
		if err := rows.Scan(&id, &collection, &inputDir, &fileName, &audioFileName, &audioDuration,
			&text, &fileHash, &fileSize, &provider, &language, &modelName,
			&hasError, &errMessage, &createdAt, &updatedAt); err != nil {
			migrateLog.Warn("skipping unreadable row", zap.Error(err))
			continue
		}

		if strings.TrimSpace(fileName) == "" {
			migrateLog.Warn("skipping row with empty file_name", zap.Int64("id", id))
			lastID = int(id)
			continue
		}

		if _, err := stmt.ExecContext(ctx, id, collection, inputDir, fileName, audioFileName, audioDuration,
			text, fileHash, fileSize, provider, language, modelName,
			hasError, errMessage, createdAt, updatedAt); err != nil {
			return count, lastID, fmt.Errorf("insert row %d: %w", id, err)
		}
		lastID = int(id)
		count++
	}
	if err := rows.Err(); err != nil {
		return count, lastID, fmt.Errorf("iterate sqlite rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return count, lastID, fmt.Errorf("commit batch: %w", err)
	}
	return count, lastID, nil
}

func copyExchanges(ctx context.Context, src, dst *repository.SQLStore) (int, error) {
	rows, err := src.DB().QueryContext(ctx, `
		SELECT id, message, audio_path, transcript, reply, model_name, created_at
		FROM exchanges ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("read sqlite exchanges: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			id                                               int64
			message, audioPath, transcript, reply, modelName string
			createdAt                                        string
		)
		if err := rows.Scan(&id, &message, &audioPath, &transcript, &reply, &modelName, &createdAt); err != nil {
			migrateLog.Warn("skipping unreadable exchange", zap.Error(err))
			continue
		}

		if _, err := dst.DB().ExecContext(ctx, `
			INSERT INTO exchanges (id, message, audio_path, transcript, reply, model_name, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			id, message, audioPath, transcript, reply, modelName, createdAt); err != nil {
			return count, fmt.Errorf("insert exchange %d: %w", id, err)
		}
		count++
	}
	return count, rows.Err()
}

// resetSequences moves the serial sequences past the copied ids so new
// inserts do not collide with migrated rows.
func resetSequences(ctx context.Context, dst *repository.SQLStore) error {
	for _, table := range []string{"transcripts", "exchanges"} {
		query := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT COALESCE(MAX(id), 1) FROM %s))`,
			table, table)
		if _, err := dst.DB().ExecContext(ctx, query); err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}

func readCheckpoint(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	lastID, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return lastID
}

func writeCheckpoint(path string, lastID int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(lastID)), 0o644)
}
