package schedule

import (
	"churchops/internal/middleware"
	"churchops/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	types := r.Group("/service-types")
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "service", "read"), h.ListTypes)
		types.POST("", middleware.RBACAuthorize(rbacService, "service", "create"), h.CreateType)
	}

	services := r.Group("/services")
	{
		services.GET("", middleware.RBACAuthorize(rbacService, "service", "read"), h.List)
		services.GET("/:id", middleware.RBACAuthorize(rbacService, "service", "read"), h.GetByID)
		services.POST("",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "service", "create"),
			h.Create,
		)
	}
}
