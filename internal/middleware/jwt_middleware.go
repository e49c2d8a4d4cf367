package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/service"
	"github.com/budbeer/budbeer_api/internal/utils"
)

// Context keys set for authenticated admin requests.
const (
	ContextAdminID  = "admin_id"
	ContextUsername = "username"
)

// SessionVerifier validates admin session tokens.
type SessionVerifier interface {
	Verify(token, expectedKind string) (*service.TokenClaims, error)
}

type JWTMiddleware struct {
	tokens SessionVerifier
}

func NewJWTMiddleware(tokens SessionVerifier) *JWTMiddleware {
	return &JWTMiddleware{tokens: tokens}
}

// Handle admits requests carrying a valid session token. Pending second
// factor tokens are rejected like any other invalid token.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "No token provided")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := m.tokens.Verify(parts[1], service.TokenKindSession)
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
