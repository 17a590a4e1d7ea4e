package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/middleware"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

type memoryStore struct {
	mu     sync.Mutex
	counts map[string]int64
	values map[string]string
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{counts: map[string]int64{}, values: map[string]string{}}
}

func (m *memoryStore) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memoryStore) Expire(context.Context, string, time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func (m *memoryStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case int64:
		m.values[key] = strconv.FormatInt(v, 10)
	case string:
		m.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryStore) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(store middleware.CounterStore, limit int) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RateLimiter(store, limit, time.Minute))
	r.GET("/store/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.SuccessResponse(c, "ok", nil))
	})
	return r
}

func get(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/store/products", nil)
	req.RemoteAddr = "203.0.113.7:4242"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	t.Parallel()

	r := newRouter(newMemoryStore(), 2)

	for i := 0; i < 2; i++ {
		w := get(r)
		require.Equal(t, http.StatusOK, w.Code)

		var body models.ApiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Rate)
		assert.Equal(t, 2, body.Rate.Limit)
		assert.Equal(t, 1-i, body.Rate.Remaining)
	}

	w := get(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body models.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Error)
	assert.Equal(t, "Too many requests", body.Message)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.err = errors.New("connection refused")

	w := get(newRouter(store, 1))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimiterDisabled(t *testing.T) {
	t.Parallel()

	r := newRouter(nil, 1)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r).Code)
	}
}
