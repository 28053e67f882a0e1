package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/translator"
	"golang.org/x/text/language"
)

// LanguageMiddleware negotiates the response language from Accept-Language
// against the loaded catalogs, falling back to defaultLang.
func LanguageMiddleware(defaultLang string) gin.HandlerFunc {
	supported := translator.Supported()
	var matcher language.Matcher
	if len(supported) > 0 {
		matcher = language.NewMatcher(supported)
	}

	return func(c *gin.Context) {
		lang := defaultLang
		if header := c.GetHeader("Accept-Language"); header != "" && matcher != nil {
			tags, _, err := language.ParseAcceptLanguage(header)
			if err == nil && len(tags) > 0 {
				_, index, confidence := matcher.Match(tags...)
				if confidence != language.No {
					lang = supported[index].String()
				}
			}
		}
		c.Set(constants.ContextKeyLang, lang)
		c.Next()
	}
}

// GetLang returns the language chosen by LanguageMiddleware.
func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(constants.ContextKeyLang); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguagePtBR
}
