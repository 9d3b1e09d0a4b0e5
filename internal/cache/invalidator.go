package cache

import (
	"context"
	"sort"

	"churchops/internal/events"
	"churchops/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const scanCount = 100

// Invalidator drops every cached view derived from a changed entity.
type Invalidator struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewInvalidator(rdb *redis.Client, logger ...*zap.Logger) *Invalidator {
	l := zap.L().Named("cache.invalidator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cache.invalidator")
	}
	return &Invalidator{rdb: rdb, logger: l}
}

// PrefixesFor lists the cache prefixes that depend on the given changes,
// deduplicated and sorted.
func PrefixesFor(changes ...events.EntityChangedEvent) []string {
	set := make(map[string]struct{})
	for _, ch := range changes {
		if events.IsHierarchy(ch.Entity) {
			set[HierarchyOptions] = struct{}{}
			set[HierarchyTree] = struct{}{}
		}
		set[OverviewStats] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (i *Invalidator) Notify(ctx context.Context, changes ...events.EntityChangedEvent) error {
	if i.rdb == nil || len(changes) == 0 {
		return nil
	}
	for _, prefix := range PrefixesFor(changes...) {
		if err := i.InvalidatePrefix(ctx, prefix); err != nil {
			i.logger.Error("failed to invalidate cache",
				zap.String("prefix", prefix),
				zap.Error(err),
			)
			return err
		}
	}
	for _, ch := range changes {
		metrics.RecordCacheInvalidate(ch.Entity)
	}
	return nil
}

// InvalidatePrefix deletes the key equal to prefix and every key under "prefix:".
func (i *Invalidator) InvalidatePrefix(ctx context.Context, prefix string) error {
	if err := i.rdb.Del(ctx, prefix).Err(); err != nil {
		return err
	}

	var cursor uint64
	for {
		keys, next, err := i.rdb.Scan(ctx, cursor, prefix+":*", scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := i.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
