// Package handler holds the gin HTTP handlers. Every error is rendered
// through common.RespondError; successes use the v2 envelope.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/internal/middleware"
	"github.com/ideafund/ideafund-backend/pkg/ginutil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// bindJSON decodes the request body, rendering a validation error on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		common.RespondError(c, common.NewValidation("error.bad_request", err))
		return false
	}
	return true
}

// paramID parses a numeric path parameter
func paramID(c *gin.Context, key string) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, key)
	if err != nil || id == 0 {
		common.RespondError(c, common.NewValidation("error.bad_request", err))
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user id. JWTAuth guarantees it on
// protected routes; a zero id still renders 401.
func currentUser(c *gin.Context) (uint64, bool) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.RespondError(c, common.NewAuth("error.unauthorized", nil))
		return 0, false
	}
	return userID, true
}

func pagination(c *gin.Context) (page, limit int) {
	return ginutil.Pagination(c, defaultPageSize, maxPageSize)
}
