package person

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
	people := r.Group("/people")
	{
		people.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "person", "read"),
			h.Search,
		)
		people.GET("/search",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "person", "read"),
			h.QuickSearch,
		)
		people.GET("/verify", middleware.RBACAuthorize(rbacService, "person", "read"), h.Verify)
		people.GET("/:id", middleware.RBACAuthorize(rbacService, "person", "read"), h.GetByID)
		people.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "person", "create"),
			h.Create,
		)
		people.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "person", "update"),
			h.Update,
		)
		people.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "person", "delete"),
			h.Delete,
		)
	}

	assignments := r.Group("/assignments")
	{
		assignments.POST("/save", middleware.RBACAuthorize(rbacService, "person", "update"), h.Assign)
		assignments.POST("/bulk-save",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "person", "update"),
			h.BulkAssign,
		)
	}
}
