package repository

import "context"

// CacheRepository stores serialized results by key. Implementations must be
// safe for concurrent use.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
