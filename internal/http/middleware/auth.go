package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/http/response"
	"github.com/yungbote/mentor-backend/internal/platform/apierr"
	"github.com/yungbote/mentor-backend/internal/platform/ctxutil"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth verifies the bearer ID token and attaches the principal.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := am.authService.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			if e, ok := apierr.As(err); ok {
				response.AbortError(c, e.Status, e.Code, e)
				return
			}
			am.log.Error("Authentication failed unexpectedly", "error", err)
			response.AbortError(c, http.StatusInternalServerError, "auth_failed", err)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole rejects principals whose role is not listed. It must run after
// RequireAuth.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := ctxutil.GetPrincipal(c.Request.Context())
		if p == nil {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, "forbidden", errors.New("role "+string(p.Role)+" may not access this endpoint"))
	}
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
