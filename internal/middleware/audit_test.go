package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudit_RecordsSuccessfulMutations(t *testing.T) {
	audit := NewAuditLogger(testutil.OpenDB(t))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(), func(c *gin.Context) {
		c.Set("userID", uint64(1))
		c.Next()
	}, Audit(audit))
	r.POST("/campaigns/:id/archive", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/campaigns/:id/fail", func(c *gin.Context) { c.Status(http.StatusConflict) })
	r.GET("/campaigns/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/campaigns/5/archive", "/campaigns/5/fail"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, target, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/campaigns/5", nil))

	logs, total, err := audit.List(context.Background(), 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "POST /campaigns/:id/archive", logs[0].Action)
	assert.Equal(t, "5", logs[0].ResourceID)
	assert.NotEmpty(t, logs[0].RequestID)
}

func TestAudit_NilLoggerIsNoop(t *testing.T) {
	var a *AuditLogger
	assert.NotPanics(t, func() { a.Log(context.Background(), nil) })
}

func TestRateLimit_WithoutRedisPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(nil, DefaultRateLimitConfig()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateBucket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := DefaultRateLimitConfig()

	tests := []struct {
		name      string
		method    string
		userID    uint64
		wantKey   string
		wantLimit int
	}{
		{"anonymous read", http.MethodGet, 0, "ideafund:ratelimit:r:ip:192.0.2.1", 120},
		{"user read", http.MethodGet, 7, "ideafund:ratelimit:r:user:7", 120},
		{"user vote", http.MethodPost, 7, "ideafund:ratelimit:w:user:7", 30},
		{"anonymous delete", http.MethodDelete, 0, "ideafund:ratelimit:w:ip:192.0.2.1", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(tt.method, "/api/v1/campaigns/1/votes", nil)
			c.Request.RemoteAddr = "192.0.2.1:5555"
			if tt.userID != 0 {
				c.Set("userID", tt.userID)
			}

			key, limit := rateBucket(c, cfg)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}
