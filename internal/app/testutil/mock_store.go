package testutil

import (
	"context"
	"sync"

	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/repository"
)

// MockStore is an in-memory repository.Store.
type MockStore struct {
	mu          sync.Mutex
	nextID      int
	processed   map[string]int
	transcripts []model.Transcript
	exchanges   []model.Exchange
	saveErr     error
	closeErr    error
	closed      bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		nextID:    1,
		processed: make(map[string]int),
	}
}

func processedKey(collection, fileName string) string {
	return collection + "\x00" + fileName
}

// WithProcessedFile marks fileName in collection as already transcribed.
func (s *MockStore) WithProcessedFile(collection, fileName string, id int) *MockStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[processedKey(collection, fileName)] = id
	return s
}

// WithSaveError makes every save fail.
func (s *MockStore) WithSaveError(err error) *MockStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
	return s
}

func (s *MockStore) WithCloseError(err error) *MockStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeErr = err
	return s
}

func (s *MockStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.closeErr
}

func (s *MockStore) WasCloseCalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *MockStore) SaveTranscript(ctx context.Context, t *model.Transcript) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	t.ID = s.nextID
	s.nextID++
	s.transcripts = append(s.transcripts, *t)
	if t.HasError == 0 {
		s.processed[processedKey(t.Collection, t.FileName)] = t.ID
	}
	return t.ID, nil
}

func (s *MockStore) FindProcessed(ctx context.Context, collection, fileName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.processed[processedKey(collection, fileName)]; ok {
		return id, nil
	}
	return 0, apperrors.ErrRecordNotFound
}

func (s *MockStore) GetByFileHash(ctx context.Context, fileHash string) (*model.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.transcripts) - 1; i >= 0; i-- {
		if s.transcripts[i].FileHash == fileHash && s.transcripts[i].HasError == 0 {
			t := s.transcripts[i]
			return &t, nil
		}
	}
	return nil, apperrors.ErrRecordNotFound
}

func (s *MockStore) GetAllByCollection(ctx context.Context, collection string) ([]model.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Transcript
	for _, t := range s.transcripts {
		if t.Collection == collection && t.HasError == 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MockStore) ListRecent(ctx context.Context, limit int) ([]model.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.transcripts) {
		limit = len(s.transcripts)
	}
	out := make([]model.Transcript, 0, limit)
	for i := len(s.transcripts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.transcripts[i])
	}
	return out, nil
}

func (s *MockStore) CollectionStats(ctx context.Context) ([]model.CollectionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byCollection := make(map[string]*model.CollectionStats)
	order := make([]string, 0)
	for _, t := range s.transcripts {
		cs, ok := byCollection[t.Collection]
		if !ok {
			cs = &model.CollectionStats{Collection: t.Collection}
			byCollection[t.Collection] = cs
			order = append(order, t.Collection)
		}
		cs.Files++
		cs.TotalDuration += t.AudioDuration
		if t.HasError != 0 {
			cs.Errors++
		}
	}
	out := make([]model.CollectionStats, 0, len(order))
	for _, name := range order {
		out = append(out, *byCollection[name])
	}
	return out, nil
}

func (s *MockStore) SoftDelete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.transcripts {
		if t.ID == id {
			s.transcripts = append(s.transcripts[:i], s.transcripts[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrRecordNotFound
}

func (s *MockStore) SaveExchange(ctx context.Context, e *model.Exchange) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	e.ID = s.nextID
	s.nextID++
	s.exchanges = append(s.exchanges, *e)
	return e.ID, nil
}

func (s *MockStore) ListExchanges(ctx context.Context, limit int) ([]model.Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.exchanges) {
		limit = len(s.exchanges)
	}
	out := make([]model.Exchange, 0, limit)
	for i := len(s.exchanges) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.exchanges[i])
	}
	return out, nil
}

// SavedTranscripts returns a copy of everything recorded so far.
func (s *MockStore) SavedTranscripts() []model.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transcript, len(s.transcripts))
	copy(out, s.transcripts)
	return out
}

func (s *MockStore) SavedExchanges() []model.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

var _ repository.Store = (*MockStore)(nil)
