package importer

import (
	"churchops/internal/middleware"
	"churchops/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limits throttles imports per user.
type Limits struct {
	Rate  rate.Limit
	Burst int
}

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService rbac.Service,
	limits Limits,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	write := []gin.HandlerFunc{middleware.RateLimitByUser(limits.Rate, limits.Burst)}
	if redisClient != nil {
		write = append(write, middleware.Idempotency(redisClient))
	}
	write = append(write, middleware.RBACAuthorize(rbacService, "import", "create"))

	chain := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), h)
	}

	imports := r.Group("/import")
	{
		imports.GET("/template", middleware.RBACAuthorize(rbacService, "import", "read"), h.Template)
		imports.POST("/assignments", chain(h.Upload)...)
		imports.POST("/assignments/rows", chain(h.ImportRows)...)
	}
}
