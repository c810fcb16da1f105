package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rolodexhq/rolodex/internal/domain"
)

func newCacheForTest(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisUserCache) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, NewRedisUserCache(client, ttl)
}

func testUser() *domain.User {
	avatar := "https://www.gravatar.com/avatar/abc"
	return &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        "deadpool@example.com",
		PasswordHash: "$2a$04$hash",
		Avatar:       &avatar,
		Confirmed:    true,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		UpdatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	_, c := newCacheForTest(t, 0)
	ctx := context.Background()
	u := testUser()

	if err := c.Set(ctx, u); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, u.Email)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected hit, got miss")
	}
	if got.ID != u.ID || got.Email != u.Email || got.PasswordHash != u.PasswordHash || got.Confirmed != u.Confirmed {
		t.Errorf("got %+v, want %+v", got, u)
	}
	if got.Avatar == nil || *got.Avatar != *u.Avatar {
		t.Errorf("avatar = %v, want %v", got.Avatar, u.Avatar)
	}
}

func TestGetMissReturnsNilNil(t *testing.T) {
	_, c := newCacheForTest(t, 0)
	got, err := c.Get(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss, got %+v", got)
	}
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	m, c := newCacheForTest(t, 900*time.Second)
	ctx := context.Background()
	u := testUser()
	if err := c.Set(ctx, u); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := m.TTL("user:" + u.Email); ttl != 900*time.Second {
		t.Errorf("ttl = %v, want 900s", ttl)
	}
	m.FastForward(901 * time.Second)
	got, err := c.Get(ctx, u.Email)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss after TTL, got %+v", got)
	}
}

func TestCorruptSnapshotCountsAsMiss(t *testing.T) {
	m, c := newCacheForTest(t, 0)
	m.Set("user:bad@example.com", "{not json")
	got, err := c.Get(context.Background(), "bad@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("corrupt entry returned as hit: %+v", got)
	}
}
