package person_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"churchops/internal/person"
	personerrors "churchops/internal/person/errors"
	personMock "churchops/internal/person/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupHandler(t *testing.T) (*personMock.MockService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	svc := personMock.NewMockService(gomock.NewController(t))
	h := person.NewHandler(svc)

	r := gin.New()
	r.GET("/people", h.Search)
	r.POST("/people", h.Create)
	r.GET("/people/:id", h.GetByID)
	r.DELETE("/people/:id", h.Delete)
	r.POST("/assignments/bulk-save", h.BulkAssign)
	return svc, r
}

func TestPersonHandler_Search(t *testing.T) {
	t.Run("defaults to active people and returns pagination meta", func(t *testing.T) {
		svc, r := setupHandler(t)
		regionID := uuid.NewString()

		svc.EXPECT().Search(gomock.Any(), gomock.Any(), 2, 0).
			DoAndReturn(func(_ context.Context, f person.Filter, page, size int) (person.Page, error) {
				assert.Equal(t, regionID, f.RegionID)
				assert.True(t, *f.IsActive)
				assert.Equal(t, "jo", f.NameSearch)
				return person.Page{People: []person.PersonResponse{{FirstName: "Jo"}}, Total: 101, Page: 2, PageSize: 100}, nil
			})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/people?region_id="+regionID+"&name_search=jo&page=2", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data []person.PersonResponse `json:"data"`
			Meta struct {
				Total      int64 `json:"total"`
				TotalPages int   `json:"totalPages"`
			} `json:"meta"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(101), body.Meta.Total)
		assert.Equal(t, 2, body.Meta.TotalPages)
		assert.Len(t, body.Data, 1)
	})

	t.Run("is_active=all removes the filter", func(t *testing.T) {
		svc, r := setupHandler(t)
		svc.EXPECT().Search(gomock.Any(), gomock.Any(), 0, 0).
			DoAndReturn(func(_ context.Context, f person.Filter, _, _ int) (person.Page, error) {
				assert.Nil(t, f.IsActive)
				return person.Page{}, nil
			})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/people?is_active=all", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad is_active", func(t *testing.T) {
		_, r := setupHandler(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/people?is_active=sometimes", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPersonHandler_Create(t *testing.T) {
	t.Run("validation error", func(t *testing.T) {
		_, r := setupHandler(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(`{"first_name":"Ann"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		svc, r := setupHandler(t)
		cellID := uuid.NewString()
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(person.PersonResponse{ID: "p1", CellID: cellID}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/people",
			strings.NewReader(`{"first_name":"Ann","last_name":"Bell","cell_id":"`+cellID+`"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestPersonHandler_GetByID_NotFound(t *testing.T) {
	svc, r := setupHandler(t)
	svc.EXPECT().GetByID(gomock.Any(), "missing").Return(person.PersonResponse{}, personerrors.ErrPersonNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/people/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPersonHandler_Delete(t *testing.T) {
	svc, r := setupHandler(t)
	svc.EXPECT().Delete(gomock.Any(), "p1").Return(personerrors.ErrPersonHasAttendance)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/people/p1", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPersonHandler_BulkAssign_RejectsEmptyList(t *testing.T) {
	_, r := setupHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assignments/bulk-save",
		strings.NewReader(`{"person_ids":[],"cell_id":"`+uuid.NewString()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
