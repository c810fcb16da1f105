package auth

import (
	"context"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/domain"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

// CurrentUser resolves a bearer access token to the authenticated user,
// consulting the cache before the store (read-through, TTL-bounded). Profile
// mutations never evict the cached snapshot, so a resolved user can be stale
// for up to the cache TTL; the store stays authoritative on the miss path.
type CurrentUser struct {
	users  ports.UserRepository
	cache  ports.UserCache // nil degrades to store-only
	issuer ports.TokenIssuer
}

func NewCurrentUser(users ports.UserRepository, cache ports.UserCache, issuer ports.TokenIssuer) *CurrentUser {
	return &CurrentUser{users: users, cache: cache, issuer: issuer}
}

// Resolve returns the user for a valid access token, or ErrInvalidToken. All
// failure modes (bad token, wrong scope, unknown subject) share that one
// error.
func (uc *CurrentUser) Resolve(ctx context.Context, token string) (*domain.User, error) {
	email, err := uc.issuer.ValidateAccessToken(token)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	if uc.cache != nil {
		if user, err := uc.cache.Get(ctx, email); err == nil && user != nil {
			return user, nil
		}
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrInvalidToken
	}
	if uc.cache != nil {
		_ = uc.cache.Set(ctx, user)
	}
	return user, nil
}
