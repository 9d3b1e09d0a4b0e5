package importer

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	importererrors "churchops/internal/importer/errors"
	"churchops/internal/middleware"
	"churchops/internal/shared/apperror"
	"churchops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

type Handler struct {
	service       Service
	rdb           *redis.Client
	maxRows       int
	maxUploadSize int64
	logger        *zap.Logger
}

func NewHandler(service Service, maxRows int, maxUploadSize int64, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("importer.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("importer.handler")
	}
	return &Handler{service: service, maxRows: maxRows, maxUploadSize: maxUploadSize, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, maxRows int, maxUploadSize int64, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, maxRows, maxUploadSize, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("import request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// formFlag follows checkbox semantics: a present field is on unless it
// spells out a false value.
func formFlag(c *gin.Context, name string) bool {
	v, ok := c.GetPostForm(name)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "0", "off", "no":
		return false
	}
	return true
}

// releaseIdempotency drops the in-flight lock set by the idempotency
// middleware and remembers the summary for replays.
func (h *Handler) releaseIdempotency(c *gin.Context, summary *Summary) {
	if h.rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if lk := c.GetString(middleware.ContextIdempotencyLockKey); lk != "" {
		_ = h.rdb.Del(ctx, lk).Err()
	}
	if summary == nil {
		return
	}
	if ck := c.GetString(middleware.ContextIdempotencyCacheKey); ck != "" {
		if payload, err := json.Marshal(summary); err == nil {
			_ = h.rdb.Set(ctx, ck, payload, idempotencyTTL).Err()
		}
	}
}

func (h *Handler) run(c *gin.Context, rows []Row, opts Options) {
	summary, err := h.service.Import(c.Request.Context(), rows, opts)
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}
	h.releaseIdempotency(c, &summary)
	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) Upload(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}
	fh, err := c.FormFile("import_file")
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, importererrors.ErrNoFile)
		return
	}
	mode, err := ParseMatchMode(c.PostForm("match_type"))
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, apperror.WithCause(importererrors.ErrUnreadableFile, err))
		return
	}
	defer f.Close()

	rows, err := Parse(fh.Filename, f, h.maxRows)
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}

	h.logger.Debug("import file parsed",
		zap.String("filename", fh.Filename),
		zap.Int("rows", len(rows)),
	)
	h.run(c, rows, Options{
		CreateMissing:  formFlag(c, "create_missing"),
		UpdateExisting: formFlag(c, "update_existing"),
		MatchMode:      mode,
	})
}

func (h *Handler) ImportRows(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	h.run(c, req.Rows, req.Options())
}

func (h *Handler) Template(c *gin.Context) {
	body, err := Template()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Attachment(c, "assignment_import_template.csv", "text/csv", body)
}
