package hierarchy

import (
	"churchops/internal/middleware"
	"churchops/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService rbac.Service,
) {
	organization := r.Group("/organization")
	{
		organization.GET("", middleware.RBACAuthorize(rbacService, "hierarchy", "read"), h.Tree)
		organization.GET("/hierarchy", middleware.RBACAuthorize(rbacService, "hierarchy", "read"), h.Relationships)
		organization.GET("/options", middleware.RBACAuthorize(rbacService, "hierarchy", "read"), h.Options)
		organization.GET("/path/:cell_id", middleware.RBACAuthorize(rbacService, "hierarchy", "read"), h.GetPath)
	}

	levels := r.Group("/hierarchy")
	{
		levels.GET("/:level", middleware.RBACAuthorize(rbacService, "hierarchy", "read"), h.List)
		levels.GET("/:level/:id", middleware.RBACAuthorize(rbacService, "hierarchy", "read"), h.GetByID)
		levels.POST("/:level",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "hierarchy", "create"),
			h.Create,
		)
	}
}
