package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	InitRedisRateLimiter(addr, pass, db)
	t.Cleanup(CloseRedis)
	if redisClient == nil {
		t.Skip("redis unreachable")
	}

	limit := 2
	r := gin.New()
	r.GET("/test", RedisRateLimit(limit, 2*time.Second), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < limit; i++ {
		res, err := http.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != 200 {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}

	res, err := http.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != 429 {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}

func TestRedisLimitersFailOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	CloseRedis()

	r := gin.New()
	r.GET("/ip", RedisRateLimit(1, time.Minute), func(c *gin.Context) { c.Status(200) })
	r.GET("/duel", func(c *gin.Context) { c.Set(CtxPlayerID, int64(7)) }, DuelRateLimit(1, time.Minute),
		func(c *gin.Context) { c.Status(200) })

	for _, path := range []string{"/ip", "/duel"} {
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Code != 200 {
				t.Fatalf("%s request %d: status %d", path, i, w.Code)
			}
		}
	}
}
