package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/pkg/config"
)

// MinIOClient hosts uploaded recordings so the transcription provider can
// fetch them through a presigned URL.
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string // e.g. https://minio.example.com when MinIO sits behind a proxy
	expiry    time.Duration
}

// NewMinIOClient creates a new MinIO client and makes sure the bucket exists
func NewMinIOClient(ctx context.Context, cfg config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	client := &MinIOClient{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicEndpoint, "/"),
		expiry:    expiry,
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucket creates the bucket when missing
func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload stores the recording and returns a URL reachable by the
// transcription provider. Failures are UPLOAD_FAILED.
func (m *MinIOClient) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	objectName := ObjectName(name, time.Now().UTC())
	if size <= 0 {
		size = -1
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.PutObject(ctx, m.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", appErrors.ErrUploadFailed(fmt.Errorf("failed to upload file: %w", err))
	}

	fileURL, err := m.GetFileURL(ctx, objectName)
	if err != nil {
		return "", appErrors.ErrUploadFailed(err)
	}
	return fileURL, nil
}

// GetFileURL gets a presigned URL for accessing a file
func (m *MinIOClient) GetFileURL(ctx context.Context, objectName string) (string, error) {
	presigned, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, m.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return RewriteHost(presigned, m.publicURL), nil
}

// Ping reports whether the bucket is reachable
func (m *MinIOClient) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}

// ObjectName builds the key under which an upload is stored:
// uploads/<yyyy>/<mm>/<dd>/<uuid>-<base name>.
func ObjectName(name string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "recording"
	}
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("uploads/%s/%s-%s", now.Format("2006/01/02"), uuid.NewString(), base)
}

// RewriteHost replaces scheme and host of u with publicURL, keeping path and
// query. An empty publicURL leaves u untouched.
func RewriteHost(u *url.URL, publicURL string) string {
	if publicURL == "" {
		return u.String()
	}
	public, err := url.Parse(publicURL)
	if err != nil || public.Host == "" {
		return u.String()
	}
	out := *u
	out.Scheme = public.Scheme
	out.Host = public.Host
	return out.String()
}
