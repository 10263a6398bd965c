package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// DuelRateLimit caps duel attempts per player, not per IP. Requires JWT.
func DuelRateLimit(maxDuels int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		playerID := c.GetInt64(CtxPlayerID)
		if playerID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "duel_rl:" + strconv.FormatInt(playerID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		val, err := hit(c.Request.Context(), key, window)
		if err != nil {
			c.Header("X-DuelRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-DuelRateLimit-Limit", strconv.Itoa(maxDuels))
		c.Header("X-DuelRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxDuels)-val), 10))

		if val > int64(maxDuels) {
			RLBlocked.WithLabelValues("duel").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "duel rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("duel").Inc()
		c.Next()
	}
}
