package handlers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rolodexhq/rolodex/internal/domain"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

// memUserRepo is an in-memory UserRepository keyed by email.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) ConfirmEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		u.Confirmed = true
	}
	return nil
}

func (r *memUserRepo) RotateRefreshToken(_ context.Context, email string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		u.RefreshToken = token
	}
	return nil
}

func (r *memUserRepo) UpdateAvatar(_ context.Context, email, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		u.Avatar = &url
	}
	return nil
}

// memContactRepo is an in-memory ContactRepository scoped by owner.
type memContactRepo struct {
	mu       sync.Mutex
	contacts map[domain.ContactID]*domain.Contact
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{contacts: map[domain.ContactID]*domain.Contact{}}
}

func (r *memContactRepo) Create(_ context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *contact
	r.contacts[contact.ID] = &cp
	return nil
}

func (r *memContactRepo) GetByID(_ context.Context, userID domain.UserID, id domain.ContactID) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memContactRepo) List(_ context.Context, userID domain.UserID, skip, limit int) ([]*domain.Contact, error) {
	owned := r.owned(userID)
	if skip >= len(owned) {
		return nil, nil
	}
	owned = owned[skip:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (r *memContactRepo) SearchByFirstName(_ context.Context, userID domain.UserID, firstName string) ([]*domain.Contact, error) {
	var out []*domain.Contact
	for _, c := range r.owned(userID) {
		if strings.EqualFold(c.FirstName, firstName) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memContactRepo) SearchByLastName(_ context.Context, userID domain.UserID, lastName string) ([]*domain.Contact, error) {
	var out []*domain.Contact
	for _, c := range r.owned(userID) {
		if strings.EqualFold(c.LastName, lastName) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memContactRepo) GetByEmail(_ context.Context, userID domain.UserID, email string) (*domain.Contact, error) {
	for _, c := range r.owned(userID) {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memContactRepo) Update(_ context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[contact.ID]
	if !ok || existing.UserID != contact.UserID {
		return domerrors.ErrContactNotFound
	}
	cp := *contact
	cp.CreatedAt = existing.CreatedAt
	r.contacts[contact.ID] = &cp
	return nil
}

func (r *memContactRepo) Delete(_ context.Context, userID domain.UserID, id domain.ContactID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[id]
	if !ok || existing.UserID != userID {
		return domerrors.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *memContactRepo) UpcomingBirthdays(_ context.Context, userID domain.UserID, today time.Time) ([]*domain.Contact, error) {
	from := today.Format("0102")
	to := today.AddDate(0, 0, 7).Format("0102")
	var out []*domain.Contact
	for _, c := range r.owned(userID) {
		mmdd := c.BirthDate.Format("0102")
		if mmdd >= from && mmdd <= to {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memContactRepo) owned(userID domain.UserID) []*domain.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Contact
	for _, c := range r.contacts {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sortContactsByCreation(out)
	return out
}

func sortContactsByCreation(contacts []*domain.Contact) {
	for i := 1; i < len(contacts); i++ {
		for j := i; j > 0 && contacts[j].CreatedAt.Before(contacts[j-1].CreatedAt); j-- {
			contacts[j], contacts[j-1] = contacts[j-1], contacts[j]
		}
	}
}

// plainHasher makes password hashes readable in assertions.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(password, hash string) bool    { return hash == "hashed:"+password }

// recordingEnqueuer captures enqueued confirmation emails.
type recordingEnqueuer struct {
	mu     sync.Mutex
	emails []string
	urls   []string
}

func (e *recordingEnqueuer) EnqueueSendConfirmationEmail(_ context.Context, email, confirmURL string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.emails = append(e.emails, email)
	e.urls = append(e.urls, confirmURL)
	return nil
}

func (e *recordingEnqueuer) EnqueueWebhook(_ context.Context, _ string, _ interface{}) error {
	return nil
}
