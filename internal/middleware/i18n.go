package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ideafund/ideafund-backend/internal/common"
	"github.com/ideafund/ideafund-backend/pkg/i18n"
)

// I18n stores the request locale for error messages. An explicit ?lang=en|ko
// wins over Accept-Language.
func I18n() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
		if lang := c.Query("lang"); lang != "" {
			locale = i18n.ParseAcceptLanguage(lang)
		}
		c.Set(common.LocaleContextKey, locale)
		c.Header("Content-Language", string(locale))
		c.Next()
	}
}
