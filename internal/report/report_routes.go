package report

import (
	"churchops/internal/middleware"
	"churchops/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	{
		reports.GET("/attendance", middleware.RBACAuthorize(rbacService, "report", "read"), h.Attendance)
		reports.GET("/grouped", middleware.RBACAuthorize(rbacService, "report", "read"), h.Grouped)
		reports.GET("/recent-services", middleware.RBACAuthorize(rbacService, "report", "read"), h.RecentServices)
		reports.GET("/export",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "report", "export"),
			h.Export,
		)
	}

	r.GET("/stats/overview", middleware.RBACAuthorize(rbacService, "report", "read"), h.Overview)
}
