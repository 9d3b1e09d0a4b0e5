package roster

import (
	"churchops/internal/middleware"
	"churchops/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	roster := r.Group("/roster")
	{
		roster.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read"),
			h.Resolve,
		)
		roster.GET("/search",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "attendance", "read"),
			h.QuickSearch,
		)
	}
}
