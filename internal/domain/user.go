package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// User is an account that owns contacts. Email is unique per store.
// RefreshToken is the currently valid refresh token; nil after logout.
// Avatar is a URL (Gravatar at signup, object storage after upload).
type User struct {
	ID           UserID
	Email        string
	PasswordHash string
	RefreshToken *string
	Avatar       *string
	Confirmed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
