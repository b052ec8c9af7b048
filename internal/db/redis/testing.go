package redis

import (
	"time"

	"github.com/redis/rueidis"
)

// NewStoreForTest wraps an existing rueidis client (test-only).
func NewStoreForTest(c rueidis.Client, clientCacheTTL time.Duration) *Store {
	return &Store{client: c, cacheTTL: clientCacheTTL}
}
