package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactID is a value object for contact identity.
type ContactID struct{ uuid.UUID }

// NewContactID creates a new ContactID from uuid.
func NewContactID(id uuid.UUID) ContactID { return ContactID{UUID: id} }

// String returns the canonical string form.
func (c ContactID) String() string { return c.UUID.String() }

// Contact is an address-book entry owned by exactly one user.
// AdditionalData is a free-text note.
type Contact struct {
	ID             ContactID
	UserID         UserID
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	BirthDate      time.Time
	AdditionalData *string
	CreatedAt      time.Time
}
