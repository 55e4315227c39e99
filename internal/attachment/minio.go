package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"alumni-api/internal/config"
	"alumni-api/internal/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrUploadFailed = errors.New("upload failed")

// Store keeps member photos outside the database and hands back a URL.
type Store interface {
	Put(ctx context.Context, upload *Upload) (string, error)
	Remove(ctx context.Context, ref string) error
}

type objectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinioStore struct {
	client  objectClient
	bucket  string
	prefix  string
	baseURL string
}

func NewMinioStore(ctx context.Context, cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return newMinioStore(client, cfg), nil
}

func newMinioStore(client objectClient, cfg config.StorageConfig) *MinioStore {
	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func (s *MinioStore) Put(ctx context.Context, upload *Upload) (string, error) {
	key := utils.GenerateUUID() + upload.Extension
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, upload.Body, upload.Size, minio.PutObjectOptions{
		ContentType: upload.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", ErrUploadFailed, key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Remove deletes the object behind ref. Refs that this store did not hand
// out are ignored.
func (s *MinioStore) Remove(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok || key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
