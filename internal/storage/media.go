// Package storage wraps the minio client used for report media. Uploaded
// photos and videos are stored under a per-user prefix and exposed through
// public URLs that end up in the report's files column.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/roadwatch/road-report-service/internal/config"
)

// MediaStore uploads report media to object storage and resolves the
// public URL each stored object is reachable under.
type MediaStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMediaStore connects to the configured endpoint and ensures the media
// bucket exists. A bucket that is already owned is not an error.
func NewMediaStore(cfg config.MinioConfig) (*MediaStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("minio bucket %q: %w", cfg.Bucket, err)
		}
		log.Printf("media: bucket %q already exists", cfg.Bucket)
	}
	base := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, client.EndpointURL().Host)
	}
	return &MediaStore{client: client, bucket: cfg.Bucket, publicBaseURL: base}, nil
}

// ObjectName builds the storage path for one uploaded file. Paths are
// namespaced by user id and report id (or "draft" before a report row
// exists) and carry a nanosecond timestamp so repeated uploads of the same
// filename never collide.
func ObjectName(userID, reportID, fileName string) string {
	if reportID == "" {
		reportID = "draft"
	}
	return fmt.Sprintf("%s/%s/%d-%s", userID, reportID, time.Now().UnixNano(), fileName)
}

// Upload streams one file into the media bucket and returns the public URL
// it is reachable under.
func (m *MediaStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, opts); err != nil {
		return "", err
	}
	return m.PublicURL(objectName), nil
}

// PublicURL returns the address a stored object can be fetched from.
func (m *MediaStore) PublicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicBaseURL, m.bucket, objectName)
}
