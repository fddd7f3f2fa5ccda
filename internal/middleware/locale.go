package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/i18n"
)

// Localize picks the response language from Accept-Language
func Localize(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyTranslator, tr)
		c.Set(constants.ContextKeyLanguage, tr.Match(c.GetHeader("Accept-Language")))
		c.Next()
	}
}
