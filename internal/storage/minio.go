// Package storage wraps the MinIO client into the object-store operations the
// upload pipeline needs: progress-reporting uploads, deletion, and key
// resolution from download URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/sportscast/sportscast-api-go/internal/config"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// ProgressFunc receives upload progress as a percentage in [0,100].
type ProgressFunc func(percent float64)

// ObjectStore is the durable binary storage used for videos and thumbnails.
type ObjectStore interface {
	// Upload stores size bytes from r under key and returns a publicly
	// resolvable download URL. progress may be nil.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error)

	// Remove deletes the object stored under key.
	Remove(ctx context.Context, key string) error

	// KeyFromURL resolves a download URL produced by Upload back to its
	// object key.
	KeyFromURL(url string) (string, error)
}

// MinioStore implements ObjectStore on a MinIO (S3-compatible) backend.
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	log           *zap.Logger
}

// NewMinioStore connects to MinIO and ensures the configured bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		log:           logger.Named("storage"),
	}, nil
}

func (s *MinioStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error) {
	reader := io.Reader(r)
	if progress != nil {
		reader = &progressReader{r: r, total: size, fn: progress}
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
	s.log.Debug("object stored", zap.String("key", key), zap.Int64("size", size))
	return url, nil
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

func (s *MinioStore) KeyFromURL(url string) (string, error) {
	parts := strings.SplitN(url, "/"+s.bucket+"/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("url %q does not reference bucket %q", url, s.bucket)
	}
	return parts[1], nil
}

// progressReader reports cumulative read progress as a percentage of total.
type progressReader struct {
	r     io.Reader
	fn    ProgressFunc
	total int64
	read  int64
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.fn(p.percent())
	}
	if err == io.EOF && p.total <= 0 {
		p.fn(100)
	}
	return n, err
}

func (p *progressReader) percent() float64 {
	if p.total <= 0 {
		return 0
	}
	pct := float64(p.read) / float64(p.total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
