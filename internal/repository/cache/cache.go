package cache

import "time"

type KV interface {
	Put(key string, v any)
	Get(key string) (any, bool)
	Delete(key string)
	Snapshot() map[string]any
}

type expiring struct {
	V any
	E time.Time
}
