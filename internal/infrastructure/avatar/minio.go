package avatar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rolodexhq/rolodex/internal/application/ports"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5 MiB

var (
	ErrFileTooBig      = errors.New("avatar exceeds the 5MB size limit")
	ErrInvalidFileType = errors.New("avatar must be a JPEG or PNG image")

	allowedContentTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
	}
)

// MinioStorage stores uploaded avatars in a MinIO/S3-compatible bucket.
// Objects are keyed by a hash of the owner's email, so re-uploading
// overwrites the previous avatar.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// MinioConfig configures the avatar bucket. PublicURL is the base under which
// objects are reachable (bucket served publicly or fronted by a CDN).
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// NewMinioStorage creates the client and ensures the bucket exists.
func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, email string, file io.Reader, size int64, contentType string) (string, error) {
	if size > maxAvatarSize {
		return "", ErrFileTooBig
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", ErrInvalidFileType
	}
	sum := sha256.Sum256([]byte(strings.ToLower(email)))
	key := fmt.Sprintf("avatars/%s%s", hex.EncodeToString(sum[:16]), ext)
	_, err := s.client.PutObject(ctx, s.bucket, key, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

var _ ports.AvatarStorage = (*MinioStorage)(nil)
