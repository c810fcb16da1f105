package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/domain"
)

// DefaultUserTTL is how long a cached user snapshot lives. There is no
// invalidation path: a profile mutation can be served stale for up to the TTL.
const DefaultUserTTL = 900 * time.Second

// RedisUserCache memoizes user-by-email lookups under "user:<email>" as a
// JSON snapshot. The store stays authoritative.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// userSnapshot is the wire form of a cached user.
type userSnapshot struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	RefreshToken *string   `json:"refresh_token,omitempty"`
	Avatar       *string   `json:"avatar,omitempty"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewRedisUserCache creates a cache. ttl <= 0 uses DefaultUserTTL.
func NewRedisUserCache(client *redis.Client, ttl time.Duration) *RedisUserCache {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &RedisUserCache{client: client, ttl: ttl}
}

func userKey(email string) string { return "user:" + email }

// Get returns the cached user, or (nil, nil) on a miss. A snapshot that fails
// to decode counts as a miss.
func (c *RedisUserCache) Get(ctx context.Context, email string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, userKey(email)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap userSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, nil
	}
	return snapshotToUser(&snap), nil
}

// Set stores the user snapshot with the configured TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(userToSnapshot(user))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userKey(user.Email), raw, c.ttl).Err()
}

func userToSnapshot(u *domain.User) *userSnapshot {
	return &userSnapshot{
		ID:           u.ID.String(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		RefreshToken: u.RefreshToken,
		Avatar:       u.Avatar,
		Confirmed:    u.Confirmed,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func snapshotToUser(s *userSnapshot) *domain.User {
	id, err := uuid.Parse(s.ID)
	if err != nil {
		return nil
	}
	return &domain.User{
		ID:           domain.NewUserID(id),
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		RefreshToken: s.RefreshToken,
		Avatar:       s.Avatar,
		Confirmed:    s.Confirmed,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

var _ ports.UserCache = (*RedisUserCache)(nil)
