package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"pumpradar/pkg/logger"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards the API group when key is set. Clients send the key in
// X-API-Key or as a bearer token; the MCP and Telegram surfaces are unaffected.
func APIKeyAuth(key string) gin.HandlerFunc {
	want := []byte(key)
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		provided := presentedKey(c.Request)
		switch {
		case provided == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
		case subtle.ConstantTimeCompare([]byte(provided), want) != 1:
			logger.Get().Named("http").Warnw("rejected API key", "path", c.FullPath(), "client", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
		default:
			c.Next()
		}
	}
}

func presentedKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("X-API-Key")); k != "" {
		return k
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequestLogger logs one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logger.Get().Named("http")
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warnw("request failed", append(fields, "errors", c.Errors.String())...)
			return
		}
		log.Debugw("request", fields...)
	}
}
