package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidscribe/internal/api/v1/dto"
	v1routes "rapidscribe/internal/api/v1/routes"
)

func TestGetSystemStats(t *testing.T) {
	svc := &fakeStatsService{
		systemFunc: func(_ context.Context) (*dto.SystemStatsResponse, error) {
			return &dto.SystemStatsResponse{
				TotalTranscripts:     10,
				TotalDurationSeconds: 1234.5,
				TotalErrors:          2,
				Collections: []dto.CollectionStatsResponse{
					{Collection: "meetings", Files: 6, TotalDurationSeconds: 800, Errors: 1},
					{Collection: "interviews", Files: 4, TotalDurationSeconds: 434.5, Errors: 1},
				},
			}, nil
		},
	}
	router := newRouter(t, &v1routes.ServiceContainer{StatsService: svc})

	w := doGet(t, router, "/api/v1/stats")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(10), body["total_transcripts"])
	assert.Equal(t, 1234.5, body["total_duration_seconds"])
	assert.Equal(t, float64(2), body["total_errors"])

	collections, ok := body["collections"].([]interface{})
	require.True(t, ok)
	assert.Len(t, collections, 2)
}

func TestGetCollectionStats(t *testing.T) {
	svc := &fakeStatsService{
		collectionsFunc: func(_ context.Context) ([]dto.CollectionStatsResponse, error) {
			return []dto.CollectionStatsResponse{
				{Collection: "meetings", Files: 3, TotalDurationSeconds: 120, Errors: 0},
			}, nil
		},
	}
	router := newRouter(t, &v1routes.ServiceContainer{StatsService: svc})

	w := doGet(t, router, "/api/v1/stats/collections")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total"])

	collections, ok := body["collections"].([]interface{})
	require.True(t, ok)
	require.Len(t, collections, 1)

	first, ok := collections[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "meetings", first["collection"])
	assert.Equal(t, float64(3), first["files"])
}

func TestStatsServiceFailureStaysOpaque(t *testing.T) {
	svc := &fakeStatsService{
		systemFunc: func(_ context.Context) (*dto.SystemStatsResponse, error) {
			return nil, assert.AnError
		},
	}
	router := newRouter(t, &v1routes.ServiceContainer{StatsService: svc})

	w := doGet(t, router, "/api/v1/stats")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "internal", apiErr["kind"])
	assert.Equal(t, "internal server error", apiErr["message"])
}
