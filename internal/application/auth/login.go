package auth

import (
	"context"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/domain"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

// defaultAccessExpiry is the access token lifetime in seconds when the
// configured value is missing or invalid.
const defaultAccessExpiry = 900

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *domain.User
}

// Login verifies credentials, issues an access/refresh token pair and
// persists the refresh token so refresh-based reissue can check it against
// the store. requireConfirmed gates unconfirmed accounts at login.
type Login struct {
	users            ports.UserRepository
	hasher           ports.PasswordHasher
	issuer           ports.TokenIssuer
	accessExp        int64
	requireConfirmed bool
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, accessExpirySeconds int64, requireConfirmed bool) *Login {
	if accessExpirySeconds <= 0 {
		accessExpirySeconds = defaultAccessExpiry
	}
	return &Login{
		users:            users,
		hasher:           hasher,
		issuer:           issuer,
		accessExp:        accessExpirySeconds,
		requireConfirmed: requireConfirmed,
	}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	if uc.requireConfirmed && !user.Confirmed {
		return nil, domerrors.ErrEmailNotConfirmed
	}
	accessToken, err := uc.issuer.IssueAccessToken(user.Email, uc.accessExp)
	if err != nil {
		return nil, err
	}
	refreshToken, err := uc.issuer.IssueRefreshToken(user.Email)
	if err != nil {
		return nil, err
	}
	if err := uc.users.RotateRefreshToken(ctx, user.Email, &refreshToken); err != nil {
		return nil, err
	}
	user.RefreshToken = &refreshToken
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    uc.accessExp,
		User:         user,
	}, nil
}
