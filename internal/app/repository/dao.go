package repository

import (
	"context"

	"rapidscribe/internal/app/model"
)

// TranscriptDAO is the persistence surface for batch and API transcriptions.
type TranscriptDAO interface {
	Close() error

	// SaveTranscript inserts the record and returns its id.
	SaveTranscript(ctx context.Context, t *model.Transcript) (int, error)

	// FindProcessed returns the id of an earlier successful transcription of
	// fileName in the collection, or ErrRecordNotFound.
	FindProcessed(ctx context.Context, collection, fileName string) (int, error)

	GetByFileHash(ctx context.Context, fileHash string) (*model.Transcript, error)

	GetAllByCollection(ctx context.Context, collection string) ([]model.Transcript, error)

	ListRecent(ctx context.Context, limit int) ([]model.Transcript, error)

	CollectionStats(ctx context.Context) ([]model.CollectionStats, error)

	SoftDelete(ctx context.Context, id int) error
}

// ExchangeDAO persists assistant exchanges.
type ExchangeDAO interface {
	SaveExchange(ctx context.Context, e *model.Exchange) (int, error)

	ListExchanges(ctx context.Context, limit int) ([]model.Exchange, error)
}

// Store is the full persistence surface backed by one database.
type Store interface {
	TranscriptDAO
	ExchangeDAO
}
