package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig sets per-client budgets over a one minute sliding window.
// Writes (votes, submissions, edits) draw from their own smaller bucket.
type RateLimitConfig struct {
	RequestsPerMinute int
	WritesPerMinute   int
	KeyPrefix         string
}

// DefaultRateLimitConfig returns the budgets used when config leaves them unset
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		WritesPerMinute:   30,
		KeyPrefix:         "ideafund:ratelimit:",
	}
}

const rateWindow = time.Minute

// slidingWindow trims the sorted set to the window, then admits the request if
// there is room. Reply: {admitted, remaining, oldest_ms}.
var slidingWindow = redis.NewScript(`
local key, limit, window, now = KEYS[1], tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local used = redis.call('ZCARD', key)
if used >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    return {0, 0, tonumber(oldest[2] or now)}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window + 1000)
return {1, limit - used - 1, now}
`)

type rateDecision struct {
	admitted   bool
	remaining  int64
	retryAfter time.Duration
}

// rateBucket picks the counter a request is charged to
func rateBucket(c *gin.Context, cfg RateLimitConfig) (string, int) {
	limit, class := cfg.RequestsPerMinute, "r"
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		if cfg.WritesPerMinute > 0 {
			limit, class = cfg.WritesPerMinute, "w"
		}
	}
	who := "ip:" + c.ClientIP()
	if userID := GetUserID(c); userID != 0 {
		who = "user:" + strconv.FormatUint(userID, 10)
	}
	return cfg.KeyPrefix + class + ":" + who, limit
}

func admit(ctx context.Context, rdb redis.Scripter, key string, limit int, now time.Time) (rateDecision, error) {
	nowMs := now.UnixMilli()
	member := strconv.FormatInt(now.UnixNano(), 36)
	reply, err := slidingWindow.Run(ctx, rdb, []string{key}, limit, rateWindow.Milliseconds(), nowMs, member).Int64Slice()
	if err != nil {
		return rateDecision{}, err
	}
	d := rateDecision{admitted: reply[0] == 1, remaining: reply[1]}
	if !d.admitted {
		d.retryAfter = time.Duration(reply[2]+rateWindow.Milliseconds()-nowMs) * time.Millisecond
		if d.retryAfter < time.Second {
			d.retryAfter = time.Second
		}
	}
	return d, nil
}

// RateLimit charges each request to the caller's user id, or client IP when
// anonymous. A nil client disables limiting and Redis errors let requests through.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key, limit := rateBucket(c, cfg)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 200*time.Millisecond)
		d, err := admit(ctx, rdb, key, limit, time.Now())
		cancel()
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
		if d.admitted {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(int(d.retryAfter.Round(time.Second)/time.Second)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, common.V2Response{
			Error: &common.V2Error{
				Code:    "RATE_LIMITED",
				Message: common.Translate(c, "rate_limit.exceeded"),
			},
		})
	}
}
