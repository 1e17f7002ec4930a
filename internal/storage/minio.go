package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"campus-market-go/internal/config"
	"campus-market-go/pkg/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     logger.Logger
}

func NewMinIO(ctx context.Context, cfg config.MinIOConfig, log logger.Logger) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is not configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		log.Info("storage: bucket created", "bucket", cfg.Bucket)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
	}

	return &MinIOStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}, nil
}

// Put normalizes the image and stores it under prefix/yyyy/mm/<uuid>.jpg.
func (s *MinIOStore) Put(ctx context.Context, prefix, filename string, content io.Reader) (string, string, error) {
	data, err := Normalize(content)
	if err != nil {
		return "", "", err
	}

	key := ObjectKey(prefix, time.Now().UTC())
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
		UserMetadata: map[string]string{
			"original-filename": path.Base(filename),
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.log.Debug("storage: object stored", "key", key, "bytes", len(data))
	return key, s.baseURL + "/" + key, nil
}

func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func ObjectKey(prefix string, now time.Time) string {
	prefix = strings.Trim(prefix, "/")
	return fmt.Sprintf("%s/%d/%02d/%s.jpg", prefix, now.Year(), now.Month(), uuid.NewString())
}
