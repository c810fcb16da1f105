package auth

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/domain"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type SignupInput struct {
	Email    string
	Password string
}

type SignupResult struct {
	User *domain.User
}

// Signup creates an unconfirmed account. The Gravatar lookup and the
// confirmation email are both best-effort: failure is logged, never surfaced.
type Signup struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	issuer     ports.TokenIssuer
	avatars    ports.AvatarSource
	enqueuer   ports.TaskEnqueuer
	confirmURL string
	log        zerolog.Logger
}

func NewSignup(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, avatars ports.AvatarSource, enqueuer ports.TaskEnqueuer, confirmBaseURL string, log zerolog.Logger) *Signup {
	return &Signup{
		users:      users,
		hasher:     hasher,
		issuer:     issuer,
		avatars:    avatars,
		enqueuer:   enqueuer,
		confirmURL: confirmBaseURL,
		log:        log,
	}
}

func (uc *Signup) Execute(ctx context.Context, input SignupInput) (*SignupResult, error) {
	if !emailRegex.MatchString(input.Email) {
		return nil, domerrors.ErrInvalidEmail
	}
	existing, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrEmailTaken
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        input.Email,
		PasswordHash: hash,
		Confirmed:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if uc.avatars != nil {
		if url, err := uc.avatars.Lookup(ctx, input.Email); err != nil {
			uc.log.Warn().Err(err).Str("email", input.Email).Msg("gravatar lookup failed")
		} else {
			user.Avatar = &url
		}
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uc.sendConfirmation(ctx, user.Email); err != nil {
		uc.log.Warn().Err(err).Str("email", user.Email).Msg("enqueue confirmation email failed")
	}
	return &SignupResult{User: user}, nil
}

func (uc *Signup) sendConfirmation(ctx context.Context, email string) error {
	token, err := uc.issuer.IssueEmailToken(email)
	if err != nil {
		return err
	}
	return uc.enqueuer.EnqueueSendConfirmationEmail(ctx, email, fmt.Sprintf("%s/%s", uc.confirmURL, token))
}
