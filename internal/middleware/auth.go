package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/pkg/jwt"
)

// JWTAuth JWT authentication middleware.
// The token comes from the Authorization header, or from the token query
// parameter on WebSocket upgrades where browsers cannot set headers.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			common.RespondError(c, common.NewAuth("error.unauthorized", nil))
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.RespondError(c, common.NewAuth("auth.token_expired", err))
			} else {
				common.RespondError(c, common.NewAuth("auth.token_invalid", err))
			}
			return
		}
		// refresh 토큰으로는 API 호출 불가
		if claims.Refresh {
			common.RespondError(c, common.NewAuth("auth.token_invalid", nil))
			return
		}

		userID, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil || userID == 0 {
			common.RespondError(c, common.NewAuth("auth.token_invalid", err))
			return
		}

		c.Set("userID", userID)
		c.Set("nickname", claims.Nickname)
		c.Set("level", claims.Level)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" && isWebSocketUpgrade(c) {
			return token, true
		}
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func isWebSocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

// GetUserID extracts user ID from context; 0 when unauthenticated
func GetUserID(c *gin.Context) uint64 {
	userID, exists := c.Get("userID")
	if !exists {
		return 0
	}
	if id, ok := userID.(uint64); ok {
		return id
	}
	return 0
}

// GetUserLevel extracts user level from context
func GetUserLevel(c *gin.Context) int {
	level, exists := c.Get("level")
	if !exists {
		return 0
	}
	if lvl, ok := level.(int); ok {
		return lvl
	}
	return 0
}

// GetNickname extracts nickname from context
func GetNickname(c *gin.Context) string {
	nickname, exists := c.Get("nickname")
	if !exists {
		return ""
	}
	if str, ok := nickname.(string); ok {
		return str
	}
	return ""
}
