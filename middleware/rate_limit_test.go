package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIPLimitersBurstAndRefill(t *testing.T) {
	l := newIPLimiters(60)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	allowed := 0
	for i := 0; i < 100; i++ {
		if l.allow("10.0.0.1", now) {
			allowed++
		}
	}
	assert.Equal(t, 30, allowed, "burst is half the per-minute budget")
	assert.True(t, l.allow("10.0.0.2", now), "buckets are per key")

	assert.True(t, l.allow("10.0.0.1", now.Add(time.Second)), "one token per second refills")
}

func TestIPLimitersForgetIdleKeys(t *testing.T) {
	l := newIPLimiters(10)
	now := time.Now()
	l.allow("a", now)
	l.allow("b", now)
	l.allow("c", now.Add(limiterIdleTTL+time.Second))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.limiters, 1)
	assert.Contains(t, l.limiters, "c")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
