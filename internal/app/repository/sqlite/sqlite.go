package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/app/util/files"
)

// DefaultDBPath is where the store lives under the data directory.
func DefaultDBPath(dataDir string) string {
	return filepath.Join(dataDir, "transcription.db")
}

// Open opens (creating if needed) the sqlite store at dbFilePath.
// The busy timeout keeps parallel batch writers from failing on SQLITE_BUSY.
func Open(dbFilePath string) (*repository.SQLStore, error) {
	if err := files.EnsureDir(filepath.Dir(dbFilePath)); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbFilePath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, apperrors.WithCause(apperrors.ErrDatabaseConnection, err)
	}

	store := repository.NewSQLStore(db, repository.SQLite)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
