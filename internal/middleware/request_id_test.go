package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"churchops/internal/middleware"
	"churchops/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestIDAndContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "u1")
		c.Next()
	}, middleware.ContextLogger(zap.NewNop()))

	var rid, uid string
	r.GET("/ping", func(c *gin.Context) {
		rid = contextutil.GetRequestID(c.Request.Context())
		uid = contextutil.GetUserID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", rid)
		assert.Equal(t, "u1", uid)
		assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("generates one", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.NotEmpty(t, rid)
		assert.Equal(t, rid, w.Header().Get(middleware.HeaderRequestID))
	})
}
