package ports

import (
	"context"
	"time"

	"github.com/rolodexhq/rolodex/internal/domain"
)

// UserRepository defines persistence for users. Lookups return (nil, nil)
// when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ConfirmEmail flips confirmed to true. Idempotent.
	ConfirmEmail(ctx context.Context, email string) error
	// RotateRefreshToken overwrites the stored refresh token; nil revokes it.
	RotateRefreshToken(ctx context.Context, email string, token *string) error
	UpdateAvatar(ctx context.Context, email, url string) error
}

// ContactRepository defines persistence for contacts. Every operation is
// scoped to the owning user; a contact owned by someone else behaves as
// absent.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, userID domain.UserID, id domain.ContactID) (*domain.Contact, error)
	List(ctx context.Context, userID domain.UserID, skip, limit int) ([]*domain.Contact, error)
	SearchByFirstName(ctx context.Context, userID domain.UserID, firstName string) ([]*domain.Contact, error)
	SearchByLastName(ctx context.Context, userID domain.UserID, lastName string) ([]*domain.Contact, error)
	GetByEmail(ctx context.Context, userID domain.UserID, email string) (*domain.Contact, error)
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, userID domain.UserID, id domain.ContactID) error
	// UpcomingBirthdays returns contacts whose birthday falls within the next
	// seven days of the given date, compared by month and day.
	UpcomingBirthdays(ctx context.Context, userID domain.UserID, today time.Time) ([]*domain.Contact, error)
}
