package rbac_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"churchops/internal/domain"
	"churchops/internal/middleware"
	"churchops/internal/rbac"
	rbacMock "churchops/internal/rbac/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("defaults to the caller role", func(t *testing.T) {
		svc := rbacMock.NewMockService(gomock.NewController(t))
		svc.EXPECT().Enforce(domain.EnforceRequest{UserID: "u1", Role: "leader", Resource: "attendance", Action: "mark"}).Return(true, nil)
		h := rbac.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set(middleware.ContextUserID, "u1")
		c.Set(middleware.ContextRole, "leader")
		c.Request = httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(`{"resource":"attendance","action":"mark"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Enforce(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data rbac.EnforceResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Data.Allowed)
	})

	t.Run("missing action fails binding", func(t *testing.T) {
		svc := rbacMock.NewMockService(gomock.NewController(t))
		h := rbac.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set(middleware.ContextRole, "leader")
		c.Request = httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(`{"resource":"attendance"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Enforce(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Permissions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := rbacMock.NewMockService(gomock.NewController(t))
	svc.EXPECT().Permissions("member").Return([]rbac.PermissionResponse{{Resource: "report", Action: "read"}}, nil)
	h := rbac.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextRole, "member")
	c.Request = httptest.NewRequest(http.MethodGet, "/rbac/permissions", nil)
	h.Permissions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resource":"report"`)
}
