package auth

import (
	"context"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

type RefreshInput struct {
	RefreshToken string
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Refresh reissues the token pair. Validation is stateful: beyond the JWT
// signature/expiry/scope checks, the presented token must equal the refresh
// token stored for the user. A signed-but-unknown token (rotated away or
// revoked by logout) revokes whatever is stored and fails, so a stolen old
// token cannot be replayed.
type Refresh struct {
	users     ports.UserRepository
	issuer    ports.TokenIssuer
	accessExp int64
}

func NewRefresh(users ports.UserRepository, issuer ports.TokenIssuer, accessExpirySeconds int64) *Refresh {
	if accessExpirySeconds <= 0 {
		accessExpirySeconds = defaultAccessExpiry
	}
	return &Refresh{users: users, issuer: issuer, accessExp: accessExpirySeconds}
}

func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	email, err := uc.issuer.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrInvalidToken
	}
	if user.RefreshToken == nil || *user.RefreshToken != input.RefreshToken {
		if err := uc.users.RotateRefreshToken(ctx, email, nil); err != nil {
			return nil, err
		}
		return nil, domerrors.ErrInvalidToken
	}
	accessToken, err := uc.issuer.IssueAccessToken(email, uc.accessExp)
	if err != nil {
		return nil, err
	}
	newRefresh, err := uc.issuer.IssueRefreshToken(email)
	if err != nil {
		return nil, err
	}
	if err := uc.users.RotateRefreshToken(ctx, email, &newRefresh); err != nil {
		return nil, err
	}
	return &RefreshResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    uc.accessExp,
	}, nil
}
