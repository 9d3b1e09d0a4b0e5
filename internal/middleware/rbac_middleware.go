package middleware

import (
	"churchops/internal/domain"
	"churchops/internal/shared/apperror"
	"churchops/internal/shared/contextutil"
	"churchops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by anything that can answer an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize lets the request through only if the caller's role may
// perform action on resource.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		req := domain.EnforceRequest{
			UserID:   userID,
			Role:     c.GetString(ContextRole),
			Resource: resource,
			Action:   action,
		}
		allowed, err := service.Enforce(req)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).Error("rbac enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			abortWith(c, apperror.ErrInternal)
			return
		}
		if !allowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message,
				gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}
