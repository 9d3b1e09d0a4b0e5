package hierarchy

import (
	"context"
	"time"

	"churchops/internal/cache"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedService serves the read-mostly views from redis. Writes go straight
// to the wrapped service, whose change signals drop the cached copies.
type cachedService struct {
	Service
	options *cache.Typed[LevelsResponse]
	tree    *cache.Typed[[]TreeNode]
}

func NewCachedService(inner Service, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	return &cachedService{
		Service: inner,
		options: cache.NewTyped[LevelsResponse](rdb, cache.HierarchyOptions, ttl, logger...),
		tree:    cache.NewTyped[[]TreeNode](rdb, cache.HierarchyTree, ttl, logger...),
	}
}

func (c *cachedService) Options(ctx context.Context, sel Selection) (LevelsResponse, error) {
	if err := validateSelection(sel); err != nil {
		return LevelsResponse{}, err
	}
	return c.options.GetOrLoad(ctx, c.options.Key(sel.Key()...), func(ctx context.Context) (LevelsResponse, error) {
		return c.Service.Options(ctx, sel)
	})
}

func (c *cachedService) Relationships(ctx context.Context) (LevelsResponse, error) {
	return c.Options(ctx, Selection{})
}

func (c *cachedService) Tree(ctx context.Context) ([]TreeNode, error) {
	return c.tree.GetOrLoad(ctx, c.tree.Key(), c.Service.Tree)
}
