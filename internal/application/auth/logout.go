package auth

import (
	"context"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

type LogoutInput struct {
	RefreshToken string
}

// Logout revokes the stored refresh token. The cached user snapshot is left
// alone: it expires by TTL, and access tokens stay valid until their own
// expiry anyway.
type Logout struct {
	users  ports.UserRepository
	issuer ports.TokenIssuer
}

func NewLogout(users ports.UserRepository, issuer ports.TokenIssuer) *Logout {
	return &Logout{users: users, issuer: issuer}
}

func (uc *Logout) Execute(ctx context.Context, input LogoutInput) error {
	email, err := uc.issuer.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return domerrors.ErrInvalidToken
	}
	if err := uc.users.RotateRefreshToken(ctx, email, nil); err != nil {
		if err == domerrors.ErrUserNotFound {
			return domerrors.ErrInvalidToken
		}
		return err
	}
	return nil
}
