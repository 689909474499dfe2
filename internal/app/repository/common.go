package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/model"
)

// Dialect captures the SQL differences between the supported drivers.
type Dialect struct {
	Name        string
	Placeholder func(n int) string
	// AutoPK is the column definition of an auto-incrementing primary key.
	AutoPK string
	// ReturningID means INSERT ... RETURNING id works and LastInsertId does not.
	ReturningID bool
}

var (
	SQLite = Dialect{
		Name:        "sqlite3",
		Placeholder: func(n int) string { return "?" },
		AutoPK:      "INTEGER PRIMARY KEY AUTOINCREMENT",
	}

	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		AutoPK:      "SERIAL PRIMARY KEY",
		ReturningID: true,
	}
)

// SQLStore implements Store over database/sql. The same statements serve both
// dialects through the placeholder function.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// DB exposes the underlying connection for migrations.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init creates the schema when it does not exist yet.
func (s *SQLStore) Init(ctx context.Context) error {
	for _, stmt := range s.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) schema() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transcripts (
			id %s,
			collection TEXT NOT NULL,
			input_dir TEXT NOT NULL DEFAULT '',
			file_name TEXT NOT NULL,
			audio_file_name TEXT NOT NULL DEFAULT '',
			audio_duration REAL NOT NULL DEFAULT 0,
			text TEXT NOT NULL DEFAULT '',
			file_hash TEXT NOT NULL DEFAULT '',
			file_size BIGINT NOT NULL DEFAULT 0,
			provider TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			model_name TEXT NOT NULL DEFAULT '',
			has_error INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			deleted_at TIMESTAMP
		)`, s.dialect.AutoPK),
		`CREATE INDEX IF NOT EXISTS idx_transcripts_collection ON transcripts (collection)`,
		`CREATE INDEX IF NOT EXISTS idx_transcripts_file_hash ON transcripts (file_hash)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS exchanges (
			id %s,
			message TEXT NOT NULL,
			audio_path TEXT NOT NULL DEFAULT '',
			transcript TEXT NOT NULL DEFAULT '',
			reply TEXT NOT NULL DEFAULT '',
			model_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`, s.dialect.AutoPK),
	}
}

func (s *SQLStore) placeholders(n int) string {
	params := make([]string, n)
	for i := range params {
		params[i] = s.dialect.Placeholder(i + 1)
	}
	return strings.Join(params, ", ")
}

// insertID runs an INSERT and returns the generated id. lib/pq does not
// implement LastInsertId, so the postgres dialect goes through RETURNING.
func (s *SQLStore) insertID(ctx context.Context, query string, args ...interface{}) (int, error) {
	if s.dialect.ReturningID {
		var id int
		if err := s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

const transcriptColumns = `id, collection, input_dir, file_name, audio_file_name, audio_duration,
	text, file_hash, file_size, provider, language, model_name,
	has_error, error_message, created_at, updated_at`

func (s *SQLStore) SaveTranscript(ctx context.Context, t *model.Transcript) (int, error) {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO transcripts
		(collection, input_dir, file_name, audio_file_name, audio_duration,
		 text, file_hash, file_size, provider, language, model_name,
		 has_error, error_message, created_at, updated_at)
		VALUES (%s)`, s.placeholders(15))

	id, err := s.insertID(ctx, query,
		t.Collection, t.InputDir, t.FileName, t.AudioFileName, t.AudioDuration,
		t.Text, t.FileHash, t.FileSize, t.Provider, t.Language, t.ModelName,
		t.HasError, t.ErrorMessage, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return 0, apperrors.WithCause(apperrors.ErrInsertFailed, err)
	}
	t.ID = id
	return id, nil
}

func (s *SQLStore) FindProcessed(ctx context.Context, collection, fileName string) (int, error) {
	query := fmt.Sprintf(
		`SELECT id FROM transcripts
		 WHERE collection = %s AND file_name = %s AND has_error = 0 AND deleted_at IS NULL
		 ORDER BY id DESC LIMIT 1`,
		s.dialect.Placeholder(1), s.dialect.Placeholder(2))

	var id int
	err := s.db.QueryRowContext(ctx, query, collection, fileName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.WithCause(apperrors.ErrRecordNotFound, err)
	}
	if err != nil {
		return 0, apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	return id, nil
}

func (s *SQLStore) GetByFileHash(ctx context.Context, fileHash string) (*model.Transcript, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM transcripts
		 WHERE file_hash = %s AND has_error = 0 AND deleted_at IS NULL
		 ORDER BY id DESC LIMIT 1`,
		transcriptColumns, s.dialect.Placeholder(1))

	t, err := scanTranscript(s.db.QueryRowContext(ctx, query, fileHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithCause(apperrors.ErrRecordNotFound, err)
	}
	if err != nil {
		return nil, apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	return t, nil
}

func (s *SQLStore) GetAllByCollection(ctx context.Context, collection string) ([]model.Transcript, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM transcripts
		 WHERE collection = %s AND has_error = 0 AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		transcriptColumns, s.dialect.Placeholder(1))

	return s.queryTranscripts(ctx, query, collection)
}

func (s *SQLStore) ListRecent(ctx context.Context, limit int) ([]model.Transcript, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT %s FROM transcripts
		 WHERE deleted_at IS NULL
		 ORDER BY id DESC LIMIT %s`,
		transcriptColumns, s.dialect.Placeholder(1))

	return s.queryTranscripts(ctx, query, limit)
}

func (s *SQLStore) CollectionStats(ctx context.Context) ([]model.CollectionStats, error) {
	query := `SELECT collection, COUNT(*), COALESCE(SUM(audio_duration), 0), COALESCE(SUM(has_error), 0)
		 FROM transcripts
		 WHERE deleted_at IS NULL
		 GROUP BY collection
		 ORDER BY collection`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	defer rows.Close()

	stats := make([]model.CollectionStats, 0)
	for rows.Next() {
		var cs model.CollectionStats
		if err := rows.Scan(&cs.Collection, &cs.Files, &cs.TotalDuration, &cs.Errors); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		stats = append(stats, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	return stats, nil
}

func (s *SQLStore) SoftDelete(ctx context.Context, id int) error {
	query := fmt.Sprintf(
		`UPDATE transcripts SET deleted_at = %s, updated_at = %s WHERE id = %s AND deleted_at IS NULL`,
		s.dialect.Placeholder(1), s.dialect.Placeholder(2), s.dialect.Placeholder(3))

	now := time.Now()
	res, err := s.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	if affected == 0 {
		return apperrors.NotFound("transcript", fmt.Sprint(id))
	}
	return nil
}

func (s *SQLStore) SaveExchange(ctx context.Context, e *model.Exchange) (int, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := fmt.Sprintf(`INSERT INTO exchanges
		(message, audio_path, transcript, reply, model_name, created_at)
		VALUES (%s)`, s.placeholders(6))

	id, err := s.insertID(ctx, query,
		e.Message, e.AudioPath, e.Transcript, e.Reply, e.ModelName, e.CreatedAt)
	if err != nil {
		return 0, apperrors.WithCause(apperrors.ErrInsertFailed, err)
	}
	e.ID = id
	return id, nil
}

func (s *SQLStore) ListExchanges(ctx context.Context, limit int) ([]model.Exchange, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT id, message, audio_path, transcript, reply, model_name, created_at
		 FROM exchanges ORDER BY id DESC LIMIT %s`,
		s.dialect.Placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	defer rows.Close()

	exchanges := make([]model.Exchange, 0, limit)
	for rows.Next() {
		var e model.Exchange
		if err := rows.Scan(&e.ID, &e.Message, &e.AudioPath, &e.Transcript, &e.Reply, &e.ModelName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exchange row: %w", err)
		}
		exchanges = append(exchanges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	return exchanges, nil
}

func (s *SQLStore) queryTranscripts(ctx context.Context, query string, args ...interface{}) ([]model.Transcript, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	defer rows.Close()

	transcripts := make([]model.Transcript, 0)
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WithCause(apperrors.ErrQueryFailed, err)
	}
	return transcripts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTranscript(row rowScanner) (*model.Transcript, error) {
	var t model.Transcript
	err := row.Scan(
		&t.ID, &t.Collection, &t.InputDir, &t.FileName, &t.AudioFileName, &t.AudioDuration,
		&t.Text, &t.FileHash, &t.FileSize, &t.Provider, &t.Language, &t.ModelName,
		&t.HasError, &t.ErrorMessage, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var _ Store = (*SQLStore)(nil)
