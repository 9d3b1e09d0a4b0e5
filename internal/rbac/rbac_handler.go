package rbac

import (
	"net/http"
	"strings"

	"churchops/internal/middleware"
	"churchops/internal/shared/apperror"
	"churchops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

// Enforce answers whether a role may perform an action. The role defaults to
// the caller's own.
func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	req.Role = c.GetString(middleware.ContextRole)
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	req.UserID = c.GetString(middleware.ContextUserID)
	req.Role = strings.TrimSpace(req.Role)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(req)
	if err != nil {
		h.logger.Error("rbac enforce failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

// Permissions lists what the caller's role can do.
func (h *Handler) Permissions(c *gin.Context) {
	role := c.GetString(middleware.ContextRole)
	perms, err := h.service.Permissions(role)
	if err != nil {
		h.logger.Error("list permissions failed", zap.String("role", role), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, RolePermissionsResponse{Role: role, Permissions: perms}, nil)
}
