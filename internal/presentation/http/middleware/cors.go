package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/config"
)

var (
	devOrigins = []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000"}

	tillMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

	tillHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID", IdempotencyKeyHeader}

	// read by till clients after a sale or a throttled call
	exposedHeaders = []string{
		"Content-Disposition",
		"X-Request-ID",
		IdempotencyReplayedHeader,
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
	}
)

func orDefault(values, def []string) []string {
	if len(values) == 0 {
		return def
	}
	return values
}

// CORSMiddleware builds the CORS policy for browser-based tills.
// An origin list containing "*" allows any origin without credentials.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	headers := slices.Clone(orDefault(cfg.AllowedHeaders, tillHeaders))
	if !slices.Contains(headers, IdempotencyKeyHeader) {
		headers = append(headers, IdempotencyKeyHeader)
	}

	policy := cors.Config{
		AllowMethods:  orDefault(cfg.AllowedMethods, tillMethods),
		AllowHeaders:  headers,
		ExposeHeaders: exposedHeaders,
		MaxAge:        12 * time.Hour,
	}

	if slices.Contains(cfg.AllowedOrigins, "*") {
		policy.AllowAllOrigins = true
	} else {
		policy.AllowOrigins = orDefault(cfg.AllowedOrigins, devOrigins)
		policy.AllowCredentials = true
	}

	return cors.New(policy)
}
