package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "rapidscribe/internal/api/errors"
	"rapidscribe/internal/api/v1/dto"
	"rapidscribe/internal/app/api"
	"rapidscribe/internal/app/audio"
	apperrors "rapidscribe/internal/app/errors"
	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/app/util/files"
	"rapidscribe/internal/app/utils"
	"rapidscribe/internal/logger"
)

// DefaultCollection is where HTTP-submitted transcripts land when the caller
// does not name one.
const DefaultCollection = "api"

// TranscriptionJobServiceImpl accepts jobs over HTTP, processes each in its
// own goroutine and keeps job state in memory. Finished transcripts are
// persisted to the repository; job state itself does not survive a restart.
type TranscriptionJobServiceImpl struct {
	transcriber api.Transcriber
	db          repository.TranscriptDAO
	storage     StorageService
	uploadDir   string

	mu   sync.RWMutex
	jobs map[string]*model.TranscriptionJob

	log *zap.Logger
}

// NewTranscriptionJobService creates the job service. storage may be a mock
// when object storage is not configured.
func NewTranscriptionJobService(
	transcriber api.Transcriber,
	db repository.TranscriptDAO,
	storage StorageService,
	uploadDir string,
) *TranscriptionJobServiceImpl {
	return &TranscriptionJobServiceImpl{
		transcriber: transcriber,
		db:          db,
		storage:     storage,
		uploadDir:   uploadDir,
		jobs:        make(map[string]*model.TranscriptionJob),
		log:         logger.MustNew("jobs"),
	}
}

// CreateJob accepts a transcription job for a file the server can already
// reach and starts processing it in the background.
func (s *TranscriptionJobServiceImpl) CreateJob(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionJobResponse, error) {
	job := s.newJob(req)

	if req.FilePath != "" {
		info, err := os.Stat(req.FilePath)
		if err != nil {
			return nil, apierrors.NewBadRequestError(fmt.Sprintf("file not found: %s", req.FilePath))
		}
		job.FilePath = req.FilePath
		job.FileName = filepath.Base(req.FilePath)
		job.FileSize = info.Size()
	} else {
		if strings.HasPrefix(req.FileURL, "http://") || strings.HasPrefix(req.FileURL, "https://") {
			return nil, apierrors.NewValidationError("invalid transcription request", map[string]string{
				"file_url": "must be an object storage key, not a URL",
			})
		}
		job.FileURL = req.FileURL
		job.FileName = filepath.Base(req.FileURL)
	}

	s.admit(job)
	return s.respond(job.ID)
}

// CreateJobFromUpload saves the uploaded file under the upload directory,
// mirrors it to object storage and starts processing.
func (s *TranscriptionJobServiceImpl) CreateJobFromUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionJobResponse, error) {
	job := s.newJob(req)

	localPath, size, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.log.Error("failed to store upload", zap.String("file_name", header.Filename), zap.Error(err))
		return nil, apierrors.NewInternalError("failed to store uploaded file")
	}

	job.FilePath = localPath
	job.FileName = header.Filename
	job.FileSize = size

	// Mirror to object storage so workers on other hosts can fetch the file.
	// Failure is not fatal: the local copy is enough to transcribe here.
	if s.storage != nil {
		if src, openErr := os.Open(localPath); openErr == nil {
			result, upErr := s.storage.UploadFile(ctx, src, size, header.Filename, job.Collection)
			src.Close()
			if upErr != nil {
				s.log.Warn("object storage mirror failed", zap.String("file_name", header.Filename), zap.Error(upErr))
			} else {
				job.FileURL = result.Key
			}
		}
	}

	s.admit(job)
	return s.respond(job.ID)
}

// GetJob returns the job's current state.
func (s *TranscriptionJobServiceImpl) GetJob(ctx context.Context, id string) (*dto.TranscriptionJobResponse, error) {
	return s.respond(id)
}

// ListJobs returns jobs newest first, optionally filtered by status.
func (s *TranscriptionJobServiceImpl) ListJobs(ctx context.Context, query dto.ListJobsQuery) (*dto.PaginatedJobsResponse, error) {
	s.mu.RLock()
	all := make([]model.TranscriptionJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		if query.Status != "" && job.Status != query.Status {
			continue
		}
		all = append(all, *job)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start := (query.Page - 1) * query.Limit
	end := start + query.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	page := make([]dto.TranscriptionJobResponse, 0, end-start)
	for i := start; i < end; i++ {
		job := all[i]
		page = append(page, dto.ToJobResponse(&job))
	}

	totalPages := 0
	if query.Limit > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}

	return &dto.PaginatedJobsResponse{
		Jobs: page,
		Pagination: dto.PaginationResponse{
			Page:       query.Page,
			Limit:      query.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    query.Page < totalPages,
			HasPrev:    query.Page > 1 && total > 0,
		},
	}, nil
}

// DeleteJob forgets a job. Mirrored uploads are removed from object storage;
// the stored transcript, if any, stays.
func (s *TranscriptionJobServiceImpl) DeleteJob(ctx context.Context, id string) error {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if ok {
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	if !ok {
		return apperrors.WithCause(apperrors.ErrJobNotFound, fmt.Errorf("id %s", id))
	}

	if job.FileURL != "" && s.storage != nil {
		if err := s.storage.DeleteFile(ctx, job.FileURL); err != nil {
			s.log.Warn("failed to delete mirrored object", zap.String("key", job.FileURL), zap.Error(err))
		}
	}

	return nil
}

func (s *TranscriptionJobServiceImpl) newJob(req *dto.CreateTranscriptionRequest) *model.TranscriptionJob {
	collection := req.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	now := time.Now()
	return &model.TranscriptionJob{
		ID:         uuid.New().String(),
		Status:     model.JobStatusPending,
		Collection: collection,
		Provider:   req.Provider,
		Language:   req.Language,
		Format:     req.Format,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// admit registers the job and launches its worker goroutine.
func (s *TranscriptionJobServiceImpl) admit(job *model.TranscriptionJob) {
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	s.log.Info("job accepted",
		zap.String("job_id", job.ID),
		zap.String("file_name", job.FileName),
		zap.String("collection", job.Collection))

	go s.process(job.ID)
}

// process runs one job to completion. It owns the job's lifecycle after
// admission, so it uses a background context rather than the request's.
func (s *TranscriptionJobServiceImpl) process(id string) {
	ctx := context.Background()

	job, ok := s.snapshot(id)
	if !ok {
		return
	}

	s.mutate(id, func(j *model.TranscriptionJob) {
		j.Status = model.JobStatusProcessing
	})

	localPath := job.FilePath
	if localPath == "" {
		fetched, err := s.fetchFromStorage(ctx, &job)
		if err != nil {
			s.fail(ctx, id, fmt.Errorf("fetch %s: %w", job.FileURL, err))
			return
		}
		localPath = fetched
		s.mutate(id, func(j *model.TranscriptionJob) {
			j.FilePath = fetched
			if j.FileSize == 0 {
				if info, statErr := os.Stat(fetched); statErr == nil {
					j.FileSize = info.Size()
				}
			}
		})
	}

	text, err := s.transcriber.Transcript(localPath)
	if err != nil {
		s.fail(ctx, id, err)
		return
	}

	now := time.Now()
	s.mutate(id, func(j *model.TranscriptionJob) {
		j.Status = model.JobStatusCompleted
		j.Text = text
		j.CompletedAt = &now
	})

	job, _ = s.snapshot(id)
	s.persist(ctx, &job, text, "")

	s.log.Info("job completed",
		zap.String("job_id", id),
		zap.Int("transcript_chars", len(text)))
}

func (s *TranscriptionJobServiceImpl) fail(ctx context.Context, id string, cause error) {
	s.log.Error("job failed", zap.String("job_id", id), zap.Error(cause))

	s.mutate(id, func(j *model.TranscriptionJob) {
		j.Status = model.JobStatusFailed
		j.Error = cause.Error()
	})

	if job, ok := s.snapshot(id); ok {
		s.persist(ctx, &job, "", cause.Error())
	}
}

// persist writes the outcome to the repository so batch tooling, stats and
// export all see HTTP-submitted work.
func (s *TranscriptionJobServiceImpl) persist(ctx context.Context, job *model.TranscriptionJob, text, errMsg string) {
	if s.db == nil {
		return
	}

	row := &model.Transcript{
		Collection:    job.Collection,
		FileName:      job.FileName,
		Text:          text,
		FileSize:      job.FileSize,
		Provider:      job.Provider,
		Language:      job.Language,
		ErrorMessage:  errMsg,
		AudioFileName: filepath.Base(job.FilePath),
	}
	if errMsg != "" {
		row.HasError = 1
	}
	if job.FilePath != "" {
		row.InputDir = filepath.Dir(job.FilePath)

		if hash, err := utils.FileSHA256(job.FilePath); err == nil {
			row.FileHash = hash
		}
		if duration, err := audio.GetAudioDuration(ctx, job.FilePath); err == nil {
			row.AudioDuration = float64(duration)
		}
	}

	if _, err := s.db.SaveTranscript(ctx, row); err != nil {
		s.log.Warn("failed to persist job result",
			zap.String("job_id", job.ID), zap.Error(err))
	}
}

// fetchFromStorage pulls the job's object into the upload directory.
func (s *TranscriptionJobServiceImpl) fetchFromStorage(ctx context.Context, job *model.TranscriptionJob) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("object storage not configured")
	}

	if err := files.EnsureDir(s.uploadDir); err != nil {
		return "", err
	}

	destPath := filepath.Join(s.uploadDir, job.ID+filepath.Ext(job.FileURL))
	if err := s.storage.FetchFile(ctx, job.FileURL, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

// saveUpload streams the multipart file to disk under a collision-proof name.
func (s *TranscriptionJobServiceImpl) saveUpload(file multipart.File, originalName string) (string, int64, error) {
	if err := files.EnsureDir(s.uploadDir); err != nil {
		return "", 0, err
	}

	name := fmt.Sprintf("%d-%s%s",
		time.Now().Unix(), uuid.New().String()[:8], filepath.Ext(originalName))
	localPath := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(localPath)
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(localPath)
		return "", 0, err
	}

	return localPath, size, nil
}

func (s *TranscriptionJobServiceImpl) snapshot(id string) (model.TranscriptionJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return model.TranscriptionJob{}, false
	}
	return *job, true
}

func (s *TranscriptionJobServiceImpl) mutate(id string, fn func(*model.TranscriptionJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = time.Now()
	}
}

func (s *TranscriptionJobServiceImpl) respond(id string) (*dto.TranscriptionJobResponse, error) {
	job, ok := s.snapshot(id)
	if !ok {
		return nil, apperrors.WithCause(apperrors.ErrJobNotFound, fmt.Errorf("id %s", id))
	}

	resp := dto.ToJobResponse(&job)
	if resp.FileURL != "" && s.storage != nil {
		resp.FileURL = s.storage.GetFileURL(job.FileURL)
	}
	return &resp, nil
}
