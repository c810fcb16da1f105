package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rolodexhq/rolodex/internal/domain"
)

// fakeUserRepo is an in-memory ports.UserRepository keyed by email.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		cp := *u
		r.users[u.Email] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return errors.New("duplicate email")
	}
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ConfirmEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return errors.New("no such user")
	}
	u.Confirmed = true
	return nil
}

func (r *fakeUserRepo) RotateRefreshToken(_ context.Context, email string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return errors.New("no such user")
	}
	u.RefreshToken = token
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, email, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return errors.New("no such user")
	}
	u.Avatar = &url
	return nil
}

func (r *fakeUserRepo) storedRefreshToken(email string) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		return u.RefreshToken
	}
	return nil
}

// fakeUserCache is a TTL-less in-memory ports.UserCache with hit/miss counters.
type fakeUserCache struct {
	mu      sync.Mutex
	entries map[string]*domain.User
	hits    int
	misses  int
	sets    int
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{entries: make(map[string]*domain.User)}
}

func (c *fakeUserCache) Get(_ context.Context, email string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.entries[email]; ok {
		c.hits++
		cp := *u
		return &cp, nil
	}
	c.misses++
	return nil, nil
}

func (c *fakeUserCache) Set(_ context.Context, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *user
	c.entries[user.Email] = &cp
	c.sets++
	return nil
}

// plainHasher is a ports.PasswordHasher for tests; no real hashing.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(password, hash string) bool {
	return strings.TrimPrefix(hash, "hashed:") == password
}

// recordingEnqueuer records enqueued confirmation emails.
type recordingEnqueuer struct {
	mu     sync.Mutex
	emails []string
	urls   []string
	fail   bool
}

func (q *recordingEnqueuer) EnqueueSendConfirmationEmail(_ context.Context, email, confirmURL string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail {
		return errors.New("queue unavailable")
	}
	q.emails = append(q.emails, email)
	q.urls = append(q.urls, confirmURL)
	return nil
}

func (q *recordingEnqueuer) EnqueueWebhook(_ context.Context, _ string, _ interface{}) error {
	return nil
}

// stubAvatarSource returns a fixed URL or an error.
type stubAvatarSource struct {
	url string
	err error
}

func (s *stubAvatarSource) Lookup(_ context.Context, _ string) (string, error) {
	return s.url, s.err
}
