package dto

import "rapidscribe/internal/app/model"

// CollectionStatsResponse aggregates one collection's transcripts.
type CollectionStatsResponse struct {
	Collection           string  `json:"collection"`
	Files                int     `json:"files"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	Errors               int     `json:"errors"`
}

// SystemStatsResponse is the system-wide view served by GET /api/v1/stats.
type SystemStatsResponse struct {
	TotalTranscripts     int                       `json:"total_transcripts"`
	TotalDurationSeconds float64                   `json:"total_duration_seconds"`
	TotalErrors          int                       `json:"total_errors"`
	Collections          []CollectionStatsResponse `json:"collections"`
}

// ToCollectionStatsResponse converts repository aggregates to the API shape.
func ToCollectionStatsResponse(stats []model.CollectionStats) []CollectionStatsResponse {
	out := make([]CollectionStatsResponse, len(stats))
	for i, s := range stats {
		out[i] = CollectionStatsResponse{
			Collection:           s.Collection,
			Files:                s.Files,
			TotalDurationSeconds: s.TotalDuration,
			Errors:               s.Errors,
		}
	}
	return out
}
