package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService stores audio files in object storage so uploads survive the
// node that accepted them and workers elsewhere can fetch them.
type StorageService interface {
	UploadFile(ctx context.Context, r io.Reader, size int64, originalName, collection string) (*FileUploadResult, error)
	FetchFile(ctx context.Context, key, destPath string) error
	GetFileURL(key string) string
	DeleteFile(ctx context.Context, key string) error
}

// FileUploadResult describes a stored object.
type FileUploadResult struct {
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MinioStorageService implements StorageService against MinIO or any
// S3-compatible endpoint.
type MinioStorageService struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// NewStorageFromEnv builds the MinIO service from MINIO_* variables, or a
// mock when MINIO_ENDPOINT is unset.
func NewStorageFromEnv() (StorageService, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		return NewMockStorageService(), nil
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	if accessKey == "" {
		accessKey = "minioadmin"
	}

	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if secretKey == "" {
		secretKey = "minioadmin"
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "rapidscribe-audio"
	}

	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	return NewMinioStorageService(endpoint, accessKey, secretKey, bucket, useSSL)
}

// NewMinioStorageService connects to the endpoint and ensures the bucket
// exists.
func NewMinioStorageService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	service := &MinioStorageService{
		client:   client,
		bucket:   bucket,
		endpoint: endpoint,
		useSSL:   useSSL,
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return service, nil
}

// UploadFile stores the stream under a collision-proof key.
func (s *MinioStorageService) UploadFile(ctx context.Context, r io.Reader, size int64, originalName, collection string) (*FileUploadResult, error) {
	key := objectKey(collection, originalName)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
		UserMetadata: map[string]string{
			"original-name": originalName,
			"collection":    collection,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	return &FileUploadResult{
		URL:        s.GetFileURL(key),
		Key:        key,
		Name:       originalName,
		Size:       size,
		UploadedAt: time.Now(),
	}, nil
}

// FetchFile downloads an object to a local path.
func (s *MinioStorageService) FetchFile(ctx context.Context, key, destPath string) error {
	if err := s.client.FGetObject(ctx, s.bucket, key, destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("fetch %s: %w", key, err)
	}
	return nil
}

// GetFileURL returns the direct URL for an object.
func (s *MinioStorageService) GetFileURL(key string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, key)
}

// DeleteFile removes an object.
func (s *MinioStorageService) DeleteFile(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func objectKey(collection, originalName string) string {
	return fmt.Sprintf("audio/%s/%d-%s%s",
		collection, time.Now().Unix(), uuid.New().String()[:8], filepath.Ext(originalName))
}

// MockStorageService stands in when no object storage is configured. Uploads
// report fake URLs; fetches fail because nothing was actually stored.
type MockStorageService struct{}

// NewMockStorageService creates the mock.
func NewMockStorageService() *MockStorageService {
	return &MockStorageService{}
}

func (s *MockStorageService) UploadFile(ctx context.Context, r io.Reader, size int64, originalName, collection string) (*FileUploadResult, error) {
	key := objectKey(collection, originalName)
	return &FileUploadResult{
		URL:        "/storage/" + key,
		Key:        key,
		Name:       originalName,
		Size:       size,
		UploadedAt: time.Now(),
	}, nil
}

func (s *MockStorageService) FetchFile(ctx context.Context, key, destPath string) error {
	return fmt.Errorf("object storage not configured, cannot fetch %s", key)
}

func (s *MockStorageService) GetFileURL(key string) string {
	return "/storage/" + key
}

func (s *MockStorageService) DeleteFile(ctx context.Context, key string) error {
	return nil
}
