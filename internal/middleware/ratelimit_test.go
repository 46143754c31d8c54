package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgredis "github.com/geoexplorer/core/internal/pkg/redis"
)

func newRateLimitRouter(t *testing.T, pre gin.HandlerFunc) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := pkgredis.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rc.Raw().Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(RateLimit(rc.Raw()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doPing(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowsUnderThreshold(t *testing.T) {
	r := newRateLimitRouter(t, nil)

	for i := 0; i < rateLimitMax; i++ {
		w := doPing(r)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimitBlocksOverThreshold(t *testing.T) {
	r := newRateLimitRouter(t, nil)

	var last *httptest.ResponseRecorder
	for i := 0; i < rateLimitMax+1; i++ {
		last = doPing(r)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "1", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "too many requests")
}

func TestRateLimitSkipsAuthenticated(t *testing.T) {
	r := newRateLimitRouter(t, func(c *gin.Context) {
		c.Set(ContextKeyUserID, "some-user")
	})

	for i := 0; i < rateLimitMax+10; i++ {
		w := doPing(r)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitPassesWhenRedisDown(t *testing.T) {
	rc := pkgredis.Wrap(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	t.Cleanup(func() { _ = rc.Raw().Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(rc.Raw()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := doPing(r)
	assert.Equal(t, http.StatusOK, w.Code)
}
