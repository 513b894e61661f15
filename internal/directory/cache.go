package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CachedDirectory keeps recently resolved users in process memory for ttl.
type CachedDirectory struct {
	next  Directory
	cache *cache.Cache
}

func NewCachedDirectory(next Directory, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (d *CachedDirectory) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	key := id.String()
	if v, ok := d.cache.Get(key); ok {
		u := v.(User)
		return &u, nil
	}

	u, err := d.next.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	d.cache.SetDefault(key, *u)
	return u, nil
}

// Forget drops a cached entry, e.g. after the user was removed.
func (d *CachedDirectory) Forget(id uuid.UUID) {
	d.cache.Delete(id.String())
}
