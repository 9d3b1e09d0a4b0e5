package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"churchops/internal/domain"
	"churchops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubEnforcer struct {
	allow map[string]bool
	err   error
	seen  domain.EnforceRequest
}

func (s *stubEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	s.seen = req
	return s.allow[req.Role+":"+req.Resource+":"+req.Action], s.err
}

func rbacRouter(svc middleware.RBACService, userID, role string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
			c.Set(middleware.ContextRole, role)
		}
		c.Next()
	})
	r.POST("/attendance/mark", middleware.RBACAuthorize(svc, "attendance", "mark"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allowed", func(t *testing.T) {
		svc := &stubEnforcer{allow: map[string]bool{"leader:attendance:mark": true}}
		w := httptest.NewRecorder()
		rbacRouter(svc, "u1", "leader").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/attendance/mark", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, domain.EnforceRequest{UserID: "u1", Role: "leader", Resource: "attendance", Action: "mark"}, svc.seen)
	})

	t.Run("forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		rbacRouter(&stubEnforcer{}, "u1", "member").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/attendance/mark", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "attendance:mark")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		rbacRouter(&stubEnforcer{}, "", "").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/attendance/mark", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("enforcer failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		rbacRouter(&stubEnforcer{err: errors.New("policy broken")}, "u1", "admin").
			ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/attendance/mark", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "policy broken")
	})
}
