// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
// A miss is reported as hit=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Observer is notified of cache lookups.
type Observer interface {
	CacheHit()
	CacheMiss()
}

type observed struct {
	Cache
	obs Observer
}

// Observe wraps c so that every Get reports a hit or miss to obs.
// Lookups that fail with an error count as misses.
func Observe(c Cache, obs Observer) Cache {
	if obs == nil {
		return c
	}
	return &observed{Cache: c, obs: obs}
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if hit && err == nil {
		o.obs.CacheHit()
	} else {
		o.obs.CacheMiss()
	}
	return data, hit, err
}
