package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rapidscribe/internal/api/middleware"
	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/api/v1/handlers"
	v1routes "rapidscribe/internal/api/v1/routes"
)

// Function-field fakes: each test sets only the methods it expects to be
// called, so an unexpected call fails loudly.

type fakeJobService struct {
	createFunc func(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionJobResponse, error)
	uploadFunc func(ctx context.Context, file multipart.File, header *multipart.FileHeader, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionJobResponse, error)
	getFunc    func(ctx context.Context, id string) (*dto.TranscriptionJobResponse, error)
	listFunc   func(ctx context.Context, query dto.ListJobsQuery) (*dto.PaginatedJobsResponse, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (f *fakeJobService) CreateJob(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionJobResponse, error) {
	return f.createFunc(ctx, req)
}

func (f *fakeJobService) CreateJobFromUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionJobResponse, error) {
	return f.uploadFunc(ctx, file, header, req)
}

func (f *fakeJobService) GetJob(ctx context.Context, id string) (*dto.TranscriptionJobResponse, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeJobService) ListJobs(ctx context.Context, query dto.ListJobsQuery) (*dto.PaginatedJobsResponse, error) {
	return f.listFunc(ctx, query)
}

func (f *fakeJobService) DeleteJob(ctx context.Context, id string) error {
	return f.deleteFunc(ctx, id)
}

type fakeAssistService struct {
	assistFunc func(ctx context.Context, req *dto.AssistRequest) (*dto.AssistResponse, error)
}

func (f *fakeAssistService) Assist(ctx context.Context, req *dto.AssistRequest) (*dto.AssistResponse, error) {
	return f.assistFunc(ctx, req)
}

type fakeProviderService struct {
	listFunc   func(ctx context.Context) ([]dto.ProviderResponse, error)
	getFunc    func(ctx context.Context, id string) (*dto.ProviderResponse, error)
	statusFunc func(ctx context.Context, id string) (*dto.ProviderStatusResponse, error)
}

func (f *fakeProviderService) ListProviders(ctx context.Context) ([]dto.ProviderResponse, error) {
	return f.listFunc(ctx)
}

func (f *fakeProviderService) GetProvider(ctx context.Context, id string) (*dto.ProviderResponse, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeProviderService) GetProviderStatus(ctx context.Context, id string) (*dto.ProviderStatusResponse, error) {
	return f.statusFunc(ctx, id)
}

type fakeStatsService struct {
	systemFunc      func(ctx context.Context) (*dto.SystemStatsResponse, error)
	collectionsFunc func(ctx context.Context) ([]dto.CollectionStatsResponse, error)
}

func (f *fakeStatsService) GetSystemStats(ctx context.Context) (*dto.SystemStatsResponse, error) {
	return f.systemFunc(ctx)
}

func (f *fakeStatsService) GetCollectionStats(ctx context.Context) ([]dto.CollectionStatsResponse, error) {
	return f.collectionsFunc(ctx)
}

type fakeExportService struct {
	exportFunc func(ctx context.Context, query dto.ExportQuery, w io.Writer) error
}

func (f *fakeExportService) ExportTranscripts(ctx context.Context, query dto.ExportQuery, w io.Writer) error {
	return f.exportFunc(ctx, query, w)
}

// newRouter wires the container behind the same middleware chain the server
// uses, minus logging and metrics.
func newRouter(t *testing.T, container *v1routes.ServiceContainer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(zap.NewNop()))

	if container.AssistService != nil {
		assistHandler := handlers.NewAssistHandler(container.AssistService)
		router.GET("/rapid/exampleai", assistHandler.LegacyAsk)
	}

	v1 := router.Group("/api/v1")
	v1routes.RegisterRoutes(v1, container)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, router, http.MethodGet, path, nil)
}

// decodeError unwraps the error envelope and returns the error object.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	apiErr, ok := envelope["error"].(map[string]interface{})
	require.True(t, ok, "response is not an error envelope: %s", w.Body.String())
	return apiErr
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
