package roster

import (
	"net/http"

	"churchops/internal/person"
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
	l := zap.L().Named("roster.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("roster request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Resolve(c *gin.Context) {
	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	active, err := person.ParseActive(c.Query("is_active"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Resolve(c.Request.Context(), q, active)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(resp.Total, resp.Page, resp.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) QuickSearch(c *gin.Context) {
	resp, err := h.service.QuickSearch(c.Request.Context(), c.Query("q"), c.Query("service_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
