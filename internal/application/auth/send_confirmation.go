package auth

import (
	"context"
	"fmt"

	"github.com/rolodexhq/rolodex/internal/application/ports"
)

type SendConfirmationInput struct {
	Email string
}

type SendConfirmationResult struct {
	AlreadyConfirmed bool
}

// SendConfirmation re-sends the confirmation email. Unknown emails succeed
// silently so the endpoint does not reveal which accounts exist.
type SendConfirmation struct {
	users      ports.UserRepository
	issuer     ports.TokenIssuer
	enqueuer   ports.TaskEnqueuer
	confirmURL string
}

func NewSendConfirmation(users ports.UserRepository, issuer ports.TokenIssuer, enqueuer ports.TaskEnqueuer, confirmBaseURL string) *SendConfirmation {
	return &SendConfirmation{
		users:      users,
		issuer:     issuer,
		enqueuer:   enqueuer,
		confirmURL: confirmBaseURL,
	}
}

func (uc *SendConfirmation) Execute(ctx context.Context, input SendConfirmationInput) (*SendConfirmationResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil || user == nil {
		return &SendConfirmationResult{}, nil
	}
	if user.Confirmed {
		return &SendConfirmationResult{AlreadyConfirmed: true}, nil
	}
	token, err := uc.issuer.IssueEmailToken(user.Email)
	if err != nil {
		return nil, err
	}
	if err := uc.enqueuer.EnqueueSendConfirmationEmail(ctx, user.Email, fmt.Sprintf("%s/%s", uc.confirmURL, token)); err != nil {
		return nil, err
	}
	return &SendConfirmationResult{}, nil
}
