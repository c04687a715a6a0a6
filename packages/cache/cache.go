// Package cache
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "feedguard:report:"

// ReportCache keeps the serialized report for a target around for a short
// TTL so repeated triggers do not re-crawl an unchanged site. Misses and
// Redis errors both fall through to a fresh audit.
type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *ReportCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &ReportCache{rdb: rdb, ttl: ttl}
}

func (c *ReportCache) Close() error {
	return c.rdb.Close()
}

// Get returns the cached report body for a normalized target, if present.
func (c *ReportCache) Get(ctx context.Context, target string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	body, err := c.rdb.Get(ctx, keyPrefix+target).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Debug("Report cache read failed", "target", target, "error", err)
		return nil, false
	}
	return body, true
}

// Set stores the report body. Failures are logged and ignored; the cache is
// an optimization, never a dependency.
func (c *ReportCache) Set(ctx context.Context, target string, body []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+target, body, c.ttl).Err(); err != nil {
		slog.Debug("Report cache write failed", "target", target, "error", err)
	}
}
