package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"churchops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func idempotentRouter(rdb *redis.Client, hits *int) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "u1")
		c.Next()
	})
	r.POST("/import/assignments", middleware.Idempotency(rdb), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{
			"cache": c.GetString(middleware.ContextIdempotencyCacheKey),
			"lock":  c.GetString(middleware.ContextIdempotencyLockKey),
		})
	})
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/import/assignments", nil)
	if key != "" {
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cacheKey := "idemp:/import/assignments:u1:k1"

	t.Run("first request takes the lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)
		hits := 0

		w := postWithKey(idempotentRouter(rdb, &hits), "k1")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, hits)
		assert.Contains(t, w.Body.String(), cacheKey+":lock")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stored response is replayed", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"created":3}`)
		hits := 0

		w := postWithKey(idempotentRouter(rdb, &hits), "k1")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, hits)
		assert.Contains(t, w.Body.String(), `"created":3`)
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)
		hits := 0

		w := postWithKey(idempotentRouter(rdb, &hits), "k1")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, hits)
	})

	t.Run("redis failure lets the request through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetErr(errors.New("down"))
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetErr(errors.New("down"))
		hits := 0

		w := postWithKey(idempotentRouter(rdb, &hits), "k1")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, hits)
	})

	t.Run("no key skips the middleware", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		hits := 0

		w := postWithKey(idempotentRouter(rdb, &hits), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, hits)
	})
}
