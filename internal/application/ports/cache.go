package ports

import (
	"context"

	"github.com/rolodexhq/rolodex/internal/domain"
)

// UserCache memoizes user-by-email lookups. It is a read-through cache: the
// store stays authoritative and entries expire by TTL only, never by
// invalidation. Get returns (nil, nil) on a miss.
type UserCache interface {
	Get(ctx context.Context, email string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}
