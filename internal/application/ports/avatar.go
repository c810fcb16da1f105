package ports

import (
	"context"
	"io"
)

// AvatarSource resolves a default avatar URL for a new account (Gravatar).
// Failures are the caller's to swallow: signup must not depend on it.
type AvatarSource interface {
	Lookup(ctx context.Context, email string) (string, error)
}

// AvatarStorage stores uploaded avatar images and returns a public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, email string, file io.Reader, size int64, contentType string) (string, error)
}
