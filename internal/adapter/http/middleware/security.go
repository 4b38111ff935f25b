package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders stamps hardening headers on every response. Responses
// carry payment data, so caching is disabled across the board.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		h.Set("Pragma", "no-cache")
		c.Next()
	}
}

// CORSOptions configures cross-origin access for dashboard clients.
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int
	Credentials    bool
}

// DefaultCORSOptions allows any origin and exposes the request-id and
// rate-limit headers the dashboard reads.
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         86400,
		Credentials:    true,
	}
}

// CORS answers preflight requests with 204 and stamps allow headers on
// responses for permitted origins.
func CORS(opts CORSOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed := corsOrigin(opts.AllowedOrigins, origin); allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			if opts.Credentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if len(opts.ExposedHeaders) > 0 {
				c.Header("Access-Control-Expose-Headers", strings.Join(opts.ExposedHeaders, ", "))
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", strings.Join(opts.AllowedMethods, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join(opts.AllowedHeaders, ", "))
			c.Header("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func corsOrigin(allowed []string, origin string) string {
	for _, a := range allowed {
		if a == "*" {
			if origin != "" {
				return origin
			}
			return "*"
		}
		if a == origin {
			return origin
		}
	}
	return ""
}
