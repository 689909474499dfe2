package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/model"
)

func newMockStore(t *testing.T, dialect Dialect) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db, dialect), mock
}

func TestPlaceholders(t *testing.T) {
	sqliteStore := NewSQLStore(nil, SQLite)
	assert.Equal(t, "?, ?, ?", sqliteStore.placeholders(3))

	pgStore := NewSQLStore(nil, Postgres)
	assert.Equal(t, "$1, $2, $3", pgStore.placeholders(3))
}

func TestInitCreatesSchema(t *testing.T) {
	store, mock := newMockStore(t, SQLite)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS transcripts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_transcripts_collection").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_transcripts_file_hash").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS exchanges").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTranscriptSQLiteUsesLastInsertID(t *testing.T) {
	store, mock := newMockStore(t, SQLite)

	mock.ExpectExec("INSERT INTO transcripts").
		WillReturnResult(sqlmock.NewResult(7, 1))

	transcript := &model.Transcript{
		Collection: "podcast",
		FileName:   "episode1.mp3",
		Text:       "hello world",
	}

	id, err := store.SaveTranscript(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Equal(t, 7, transcript.ID)
	assert.False(t, transcript.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTranscriptPostgresUsesReturning(t *testing.T) {
	store, mock := newMockStore(t, Postgres)

	mock.ExpectQuery(`(?s)INSERT INTO transcripts.+RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	transcript := &model.Transcript{Collection: "podcast", FileName: "episode2.mp3"}

	id, err := store.SaveTranscript(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, 11, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTranscriptInsertError(t *testing.T) {
	store, mock := newMockStore(t, SQLite)

	mock.ExpectExec("INSERT INTO transcripts").
		WillReturnError(errors.New("disk I/O error"))

	_, err := store.SaveTranscript(context.Background(), &model.Transcript{FileName: "x.mp3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInsertFailed))
}

func TestFindProcessed(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t, SQLite)

		mock.ExpectQuery("SELECT id FROM transcripts").
			WithArgs("podcast", "episode1.mp3").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(123))

		id, err := store.FindProcessed(context.Background(), "podcast", "episode1.mp3")
		require.NoError(t, err)
		assert.Equal(t, 123, id)
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newMockStore(t, SQLite)

		mock.ExpectQuery("SELECT id FROM transcripts").
			WithArgs("podcast", "missing.mp3").
			WillReturnError(sql.ErrNoRows)

		_, err := store.FindProcessed(context.Background(), "podcast", "missing.mp3")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrRecordNotFound))
	})
}

var transcriptTestColumns = []string{
	"id", "collection", "input_dir", "file_name", "audio_file_name", "audio_duration",
	"text", "file_hash", "file_size", "provider", "language", "model_name",
	"has_error", "error_message", "created_at", "updated_at",
}

func TestGetAllByCollection(t *testing.T) {
	store, mock := newMockStore(t, SQLite)

	now := time.Now()
	rows := sqlmock.NewRows(transcriptTestColumns).
		AddRow(1, "podcast", "/in", "a.mp3", "a.mp3", 120.5, "first", "hash-a", 2048,
			"openai", "en", "whisper-1", 0, "", now, now).
		AddRow(2, "podcast", "/in", "b.mp3", "b.mp3", 64.0, "second", "hash-b", 1024,
			"openai", "en", "whisper-1", 0, "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM transcripts").
		WithArgs("podcast").
		WillReturnRows(rows)

	transcripts, err := store.GetAllByCollection(context.Background(), "podcast")
	require.NoError(t, err)
	require.Len(t, transcripts, 2)
	assert.Equal(t, "a.mp3", transcripts[0].FileName)
	assert.Equal(t, 120.5, transcripts[0].AudioDuration)
	assert.Equal(t, "second", transcripts[1].Text)
	assert.Equal(t, "hash-b", transcripts[1].FileHash)
}

func TestGetByFileHash(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t, Postgres)

		now := time.Now()
		rows := sqlmock.NewRows(transcriptTestColumns).
			AddRow(5, "podcast", "/in", "c.mp3", "c.mp3", 30.0, "cached text", "deadbeef", 512,
				"openai", "en", "whisper-1", 0, "", now, now)

		mock.ExpectQuery("SELECT (.+) FROM transcripts").
			WithArgs("deadbeef").
			WillReturnRows(rows)

		transcript, err := store.GetByFileHash(context.Background(), "deadbeef")
		require.NoError(t, err)
		assert.Equal(t, 5, transcript.ID)
		assert.Equal(t, "cached text", transcript.Text)
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newMockStore(t, Postgres)

		mock.ExpectQuery("SELECT (.+) FROM transcripts").
			WithArgs("unknown").
			WillReturnError(sql.ErrNoRows)

		_, err := store.GetByFileHash(context.Background(), "unknown")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrRecordNotFound))
	})
}

func TestCollectionStats(t *testing.T) {
	store, mock := newMockStore(t, SQLite)

	rows := sqlmock.NewRows([]string{"collection", "count", "duration", "errors"}).
		AddRow("interviews", 3, 540.0, 1).
		AddRow("podcast", 10, 7200.0, 0)

	mock.ExpectQuery("SELECT collection, COUNT").WillReturnRows(rows)

	stats, err := store.CollectionStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "interviews", stats[0].Collection)
	assert.Equal(t, 3, stats[0].Files)
	assert.Equal(t, 1, stats[0].Errors)
	assert.Equal(t, 7200.0, stats[1].TotalDuration)
}

func TestSoftDelete(t *testing.T) {
	t.Run("deletes existing row", func(t *testing.T) {
		store, mock := newMockStore(t, SQLite)

		mock.ExpectExec("UPDATE transcripts SET deleted_at").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.SoftDelete(context.Background(), 9))
	})

	t.Run("missing row is not found", func(t *testing.T) {
		store, mock := newMockStore(t, SQLite)

		mock.ExpectExec("UPDATE transcripts SET deleted_at").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.SoftDelete(context.Background(), 404)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestSaveExchange(t *testing.T) {
	store, mock := newMockStore(t, SQLite)

	mock.ExpectExec("INSERT INTO exchanges").
		WillReturnResult(sqlmock.NewResult(42, 1))

	exchange := &model.Exchange{
		Message:   "tell me a joke",
		AudioPath: "clip.mp3",
		Reply:     "a funny one",
		ModelName: "ai/gemma3n",
	}

	id, err := store.SaveExchange(context.Background(), exchange)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, 42, exchange.ID)
	assert.False(t, exchange.CreatedAt.IsZero())
}

func TestListExchanges(t *testing.T) {
	store, mock := newMockStore(t, SQLite)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "message", "audio_path", "transcript", "reply", "model_name", "created_at"}).
		AddRow(2, "second", "b.mp3", "t2", "r2", "ai/gemma3n", now).
		AddRow(1, "first", "a.mp3", "t1", "r1", "ai/gemma3n", now)

	mock.ExpectQuery("SELECT id, message, audio_path").
		WithArgs(10).
		WillReturnRows(rows)

	exchanges, err := store.ListExchanges(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)
	assert.Equal(t, "second", exchanges[0].Message)
	assert.Equal(t, "r1", exchanges[1].Reply)
}
