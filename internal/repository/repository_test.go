package repository

import (
	"testing"
	"time"

	"fooddash/internal/repository/cache"
)

func Test_Repository_Close(t *testing.T) {
	r := &Repository{kv: cache.NewShardedCache(cache.WithShardTTL(time.Minute))}
	r.Close()

	// a repository without a cache tolerates Close
	(&Repository{}).Close()
}
