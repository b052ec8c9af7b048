package redis

import (
	"context"

	"github.com/kailas-cloud/itemsearch/internal/db"
)

// HGetAll returns all fields of a hash. A missing key yields an empty map.
// With client-side caching enabled the read is served from the tracked local copy when possible.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	var (
		m   map[string]string
		err error
	)
	if s.cacheTTL > 0 {
		m, err = s.client.DoCache(ctx, s.b().Hgetall().Key(key).Cache(), s.cacheTTL).AsStrMap()
	} else {
		m, err = s.do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}
