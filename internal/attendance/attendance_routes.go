package attendance

import (
	"churchops/internal/middleware"
	"churchops/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	attendance := r.Group("/attendance")
	{
		attendance.GET("/status", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetStatus)
		attendance.GET("/services/:service_id", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.ListByService)
		attendance.POST("/mark",
			middleware.RateLimitByUser(10, 30),
			middleware.RBACAuthorize(rbacService, "attendance", "mark"),
			h.Mark,
		)
		attendance.POST("/bulk-mark",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "attendance", "mark"),
			h.BulkMark,
		)
	}
}
