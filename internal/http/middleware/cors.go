package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS allows the configured origins. An empty list falls back to local dev
// origins; a single "*" allows any origin without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		ExposeHeaders:    []string{headerTraceID, headerRequestID},
		AllowCredentials: true,
	}
	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	switch {
	case len(cleaned) == 1 && cleaned[0] == "*":
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	case len(cleaned) == 0:
		cfg.AllowOrigins = defaultOrigins
	default:
		cfg.AllowOrigins = cleaned
	}
	return cors.New(cfg)
}
