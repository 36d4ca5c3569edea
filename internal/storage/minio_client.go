package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"infra-object-service/internal/config"
)

// AttachmentKey builds the object-storage key of a validation attachment:
// validations/<objectID>/<type>/<uuid>-<name>.
func AttachmentKey(objectID uuid.UUID, validationType, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "attachment"
	}
	return fmt.Sprintf("validations/%s/%s/%s-%s", objectID, validationType, uuid.NewString(), name)
}

// NewMinioClient initializes a MinIO client and ensures the bucket exists.
func NewMinioClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*minio.Client, error) {
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSSL,
	})
	if err != nil {
		return nil, err
	}
	exists, err := minioClient.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logger.Info("created bucket", "bucket", cfg.MinioBucket)
	}
	return minioClient, nil
}

// MinioStore keeps attachment blobs in a MinIO bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

func NewMinioStore(client *minio.Client, bucket string, logger *slog.Logger) *MinioStore {
	return &MinioStore{client: client, bucket: bucket, logger: logger.With("module", "storage")}
}

// Put uploads size bytes from r under key and returns the number of bytes
// actually read.
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error) {
	cr := newCountingReader(r)
	_, err := s.client.PutObject(ctx, s.bucket, key, cr, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return cr.bytes, errors.Wrapf(err, "upload %s", key)
	}
	s.logger.Debug("attachment stored", "key", key, "bytes", cr.bytes)
	return cr.bytes, nil
}

// Get opens the blob stored under key.
func (s *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "download %s", key)
	}
	return obj, nil
}

// Remove deletes the blob stored under key.
func (s *MinioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
