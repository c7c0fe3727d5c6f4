package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/pkg/i18n"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// LocaleContextKey is the gin context key the I18n middleware stores the locale under
const LocaleContextKey = "locale"

// StatusOf maps an error kind to its HTTP status
func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError converts any error into the v2 error envelope.
// AppError messages are translated for the request locale; anything else is
// logged and reported as an internal error without leaking its text.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		pkglogger.GetLogger().Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
		writeError(c, http.StatusInternalServerError, Translate(c, "error.internal"), nil)
		return
	}

	status := StatusOf(appErr.Kind)
	if status >= http.StatusInternalServerError {
		pkglogger.GetLogger().Error().Err(err).
			Str("kind", string(appErr.Kind)).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	message := appErr.Message
	switch {
	case message != "":
	case appErr.Kind == KindAuth:
		message = "error.unauthorized"
	default:
		message = "error." + string(appErr.Kind)
	}

	var details interface{}
	if appErr.Kind == KindValidation && appErr.Cause != nil {
		details = appErr.Cause.Error()
	}
	writeError(c, status, Translate(c, message), details)
}

// Translate resolves an i18n key for the request locale
func Translate(c *gin.Context, key string, args ...interface{}) string {
	return i18n.Default().T(LocaleFrom(c), key, args...)
}

// LocaleFrom returns the locale stored by the I18n middleware
func LocaleFrom(c *gin.Context) i18n.Locale {
	if v, exists := c.Get(LocaleContextKey); exists {
		if locale, ok := v.(i18n.Locale); ok {
			return locale
		}
	}
	return i18n.LocaleEn
}

func writeError(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, V2Response{
		Success: false,
		Error: &V2Error{
			Code:    getErrorCode(status),
			Message: message,
			Details: details,
		},
	})
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 429:
		return "TOO_MANY_REQUESTS"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	case 502:
		return "UPLOAD_FAILED"
	default:
		return "ERROR"
	}
}
