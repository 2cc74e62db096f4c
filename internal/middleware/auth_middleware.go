// internal/middleware/auth_middleware.go
package middleware

import (
	"strings"

	"padel-academy-service/internal/pkg/jwt"
	"padel-academy-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	verifier *jwt.Verifier
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier *jwt.Verifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// Auth verifies the bearer token and loads identity claims into the
// request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header")
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.logger.Debug("token verification failed", zap.Error(err))
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set("identity_id", claims.IdentityID)
		c.Set("roles", claims.Roles)
		c.Set("is_coach", claims.IsCoach)

		c.Next()
	}
}

// RequireAdmin rejects requests whose claims carry no admin role. Must
// run after Auth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.Forbidden(c, "admin role required")
			return
		}
		c.Next()
	}
}
