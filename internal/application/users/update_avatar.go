package users

import (
	"context"
	"io"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/domain"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

type UpdateAvatarInput struct {
	Email       string
	File        io.Reader
	Size        int64
	ContentType string
}

type UpdateAvatarResult struct {
	User *domain.User
}

// UpdateAvatar uploads the image to object storage and stores the resulting
// URL. The user cache is deliberately not evicted: resolvers may serve the
// old avatar until the cached snapshot's TTL runs out.
type UpdateAvatar struct {
	users   ports.UserRepository
	storage ports.AvatarStorage
}

func NewUpdateAvatar(users ports.UserRepository, storage ports.AvatarStorage) *UpdateAvatar {
	return &UpdateAvatar{users: users, storage: storage}
}

func (uc *UpdateAvatar) Execute(ctx context.Context, input UpdateAvatarInput) (*UpdateAvatarResult, error) {
	url, err := uc.storage.Upload(ctx, input.Email, input.File, input.Size, input.ContentType)
	if err != nil {
		return nil, err
	}
	if err := uc.users.UpdateAvatar(ctx, input.Email, url); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return &UpdateAvatarResult{User: user}, nil
}
