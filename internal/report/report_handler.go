package report

import (
	"net/http"

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
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) bindQuery(c *gin.Context) (Query, bool) {
	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return Query{}, false
	}
	return q, true
}

func (h *Handler) Attendance(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.service.Attendance(c.Request.Context(), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Grouped(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.service.Grouped(c.Request.Context(), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), q, c.DefaultQuery("format", "csv"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Body)
}

func (h *Handler) RecentServices(c *gin.Context) {
	resp, err := h.service.RecentServices(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Overview(c *gin.Context) {
	resp, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
