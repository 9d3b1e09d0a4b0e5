package roster_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"churchops/internal/roster"
	rosterMock "churchops/internal/roster/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupHandler(t *testing.T) (*rosterMock.MockService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	svc := rosterMock.NewMockService(gomock.NewController(t))
	h := roster.NewHandler(svc)

	r := gin.New()
	r.GET("/roster", h.Resolve)
	r.GET("/roster/search", h.QuickSearch)
	return svc, r
}

func TestRosterHandler_Resolve(t *testing.T) {
	t.Run("binds organized flag and active default", func(t *testing.T) {
		svc, r := setupHandler(t)
		svc.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q roster.Query, active *bool) (roster.Response, error) {
				assert.True(t, q.Organized)
				assert.Equal(t, "Ghana", q.Country)
				assert.True(t, *active)
				return roster.Response{People: []roster.Entry{}, Total: 0, Page: 1, PageSize: 100}, nil
			})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roster?organized=true&country=Ghana", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a malformed service id", func(t *testing.T) {
		_, r := setupHandler(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roster?service_id=nope", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRosterHandler_QuickSearch(t *testing.T) {
	svc, r := setupHandler(t)
	svc.EXPECT().QuickSearch(gomock.Any(), "jo", "s1").Return([]roster.QuickEntry{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roster/search?q=jo&service_id=s1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
