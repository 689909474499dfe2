package pg

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/repository"
)

// Open connects to postgres with the given connection string, verifies the
// connection and ensures the schema exists.
func Open(connectionString string) (*repository.SQLStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, apperrors.WithCause(apperrors.ErrDatabaseConnection, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.WithCause(apperrors.ErrDatabaseConnection, err)
	}

	store := repository.NewSQLStore(db, repository.Postgres)
	if err := store.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
