package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"churchops/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache names double as key prefixes.
const (
	HierarchyOptions = "hierarchy:options"
	HierarchyTree    = "hierarchy:tree"
	OverviewStats    = "stats:overview"
)

const defaultTTL = time.Hour

// Typed is a read-through JSON cache over redis. A nil client turns it into
// a pass-through so callers never branch on cache availability.
type Typed[T any] struct {
	rdb    *redis.Client
	name   string
	ttl    time.Duration
	sf     singleflight.Group
	logger *zap.Logger
}

func NewTyped[T any](rdb *redis.Client, name string, ttl time.Duration, logger ...*zap.Logger) *Typed[T] {
	l := zap.L().Named("cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cache")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Typed[T]{rdb: rdb, name: name, ttl: ttl, logger: l}
}

// Key builds "<name>:<part>:<part>". Empty parts are kept as "-" so that
// different filter shapes never share a key.
func (c *Typed[T]) Key(parts ...string) string {
	if len(parts) == 0 {
		return c.name
	}
	normalized := make([]string, len(parts))
	for i, p := range parts {
		if p == "" {
			p = "-"
		}
		normalized[i] = p
	}
	return c.name + ":" + strings.Join(normalized, ":")
}

func (c *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			var v T
			if json.Unmarshal([]byte(cached), &v) == nil {
				metrics.RecordCacheRequest(c.name, true)
				return v, nil
			}
			c.logger.Warn("cached value is not decodable", zap.String("key", key))
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}
	metrics.RecordCacheRequest(c.name, false)

	v, err, _ := c.sf.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		if c.rdb != nil {
			if data, err := json.Marshal(v); err == nil {
				if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
					c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
