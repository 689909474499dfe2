package services

import (
	"context"

	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/app/repository"
)

// StatsServiceImpl aggregates the transcript repository.
type StatsServiceImpl struct {
	db repository.TranscriptDAO
}

// NewStatsService creates the stats service.
func NewStatsService(db repository.TranscriptDAO) *StatsServiceImpl {
	return &StatsServiceImpl{db: db}
}

// GetCollectionStats returns per-collection aggregates.
func (s *StatsServiceImpl) GetCollectionStats(ctx context.Context) ([]dto.CollectionStatsResponse, error) {
	stats, err := s.db.CollectionStats(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToCollectionStatsResponse(stats), nil
}

// GetSystemStats sums the per-collection aggregates into a system view.
func (s *StatsServiceImpl) GetSystemStats(ctx context.Context) (*dto.SystemStatsResponse, error) {
	collections, err := s.GetCollectionStats(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.SystemStatsResponse{Collections: collections}
	for _, c := range collections {
		resp.TotalTranscripts += c.Files
		resp.TotalDurationSeconds += c.TotalDurationSeconds
		resp.TotalErrors += c.Errors
	}

	return resp, nil
}
