package middleware

import (
	"strings"
	"time"

	"github.com/TourHive/booking-flow-backend/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware creates a middleware for handling CORS with the given
// configuration. Origins may be exact or wildcard subdomains ("*.example.com").
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Accept",
		},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 0 || containsOrigin(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
		return cors.New(corsConfig)
	}

	corsConfig.AllowOriginFunc = func(origin string) bool {
		for _, allowed := range cfg.AllowedOrigins {
			if allowed == origin {
				return true
			}
			// Wildcard subdomains: "*.example.com" matches any host under it.
			if strings.HasPrefix(allowed, "*.") {
				domain := strings.TrimPrefix(allowed, "*")
				if strings.HasSuffix(origin, domain) {
					return true
				}
			}
		}
		return false
	}
	return cors.New(corsConfig)
}

// containsOrigin checks if a string is present in the allowed origins slice
func containsOrigin(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}
