package auth

import (
	"context"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

type ConfirmEmailInput struct {
	Token string
}

type ConfirmEmailResult struct {
	// AlreadyConfirmed reports that the flag was set before this call. The
	// flip itself is idempotent either way.
	AlreadyConfirmed bool
}

// ConfirmEmail resolves the verification token to an email and flips the
// account's confirmed flag.
type ConfirmEmail struct {
	users  ports.UserRepository
	issuer ports.TokenIssuer
}

func NewConfirmEmail(users ports.UserRepository, issuer ports.TokenIssuer) *ConfirmEmail {
	return &ConfirmEmail{users: users, issuer: issuer}
}

func (uc *ConfirmEmail) Execute(ctx context.Context, input ConfirmEmailInput) (*ConfirmEmailResult, error) {
	email, err := uc.issuer.EmailFromToken(input.Token)
	if err != nil {
		return nil, domerrors.ErrEmailTokenInvalid
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if user.Confirmed {
		return &ConfirmEmailResult{AlreadyConfirmed: true}, nil
	}
	if err := uc.users.ConfirmEmail(ctx, email); err != nil {
		return nil, err
	}
	return &ConfirmEmailResult{}, nil
}
