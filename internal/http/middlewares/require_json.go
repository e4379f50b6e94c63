package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/placeshare/internal/httperr"
	"github.com/gin-gonic/gin"
)

// RequireJSON guards routes whose bodies are JSON. Multipart routes (place
// creation, signup) must not be wrapped with this.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := c.GetHeader("Content-Type")
			// allow "application/json; charset=utf-8"
			if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				c.Error(httperr.New("Content-Type must be application/json.", http.StatusUnsupportedMediaType))
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
