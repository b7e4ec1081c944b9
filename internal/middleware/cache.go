package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheConfig represents cache control configuration
type CacheConfig struct {
	MaxAge               int
	StaleWhileRevalidate int
	Vary                 []string
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge:               60,
		StaleWhileRevalidate: 30,
		Vary:                 []string{"Accept", "Authorization"},
	}
}

// Cache marks anonymous catalog reads as shareable. Authenticated reads may
// include staff-only records and are never stored.
func Cache(config CacheConfig) gin.HandlerFunc {
	public := []string{"public"}
	if config.MaxAge > 0 {
		public = append(public, "max-age="+strconv.Itoa(config.MaxAge))
	}
	if config.StaleWhileRevalidate > 0 {
		public = append(public, "stale-while-revalidate="+strconv.Itoa(config.StaleWhileRevalidate))
	}
	publicValue := strings.Join(public, ", ")

	return func(c *gin.Context) {
		if len(config.Vary) > 0 {
			c.Header("Vary", strings.Join(config.Vary, ", "))
		}

		if c.Request.Method != http.MethodGet || c.GetHeader("Authorization") != "" {
			c.Header("Cache-Control", "private, no-store")
		} else {
			c.Header("Cache-Control", publicValue)
		}

		c.Next()
	}
}
