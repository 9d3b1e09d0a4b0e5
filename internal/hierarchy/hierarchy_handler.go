package hierarchy

import (
	"net/http"

	hierarchyerrors "churchops/internal/hierarchy/errors"
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
	l := zap.L().Named("hierarchy.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hierarchy.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("hierarchy request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) level(c *gin.Context) (Level, bool) {
	level, ok := ParseLevel(c.Param("level"))
	if !ok {
		h.writeServiceError(c, hierarchyerrors.ErrInvalidLevel)
	}
	return level, ok
}

// selection reads the cascading filter; parent_id is shorthand for the id of
// the level directly above.
func (h *Handler) selection(c *gin.Context, level Level) (Selection, bool) {
	var sel Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return Selection{}, false
	}
	if parentID := c.Query("parent_id"); parentID != "" {
		if parent, ok := level.Parent(); ok {
			sel.Set(parent, parentID)
		}
	}
	return sel, true
}

func (h *Handler) Create(c *gin.Context) {
	level, ok := h.level(c)
	if !ok {
		return
	}

	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create organization unit validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), level, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	level, ok := h.level(c)
	if !ok {
		return
	}
	sel, ok := h.selection(c, level)
	if !ok {
		return
	}

	resp, err := h.service.List(c.Request.Context(), level, sel)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	level, ok := h.level(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), level, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Options(c *gin.Context) {
	sel, ok := h.selection(c, LevelRegion)
	if !ok {
		return
	}

	resp, err := h.service.Options(c.Request.Context(), sel)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Relationships(c *gin.Context) {
	resp, err := h.service.Relationships(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Tree(c *gin.Context) {
	resp, err := h.service.Tree(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPath(c *gin.Context) {
	resp, err := h.service.GetPath(c.Request.Context(), c.Param("cell_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
