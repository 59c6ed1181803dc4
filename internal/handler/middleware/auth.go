package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"hotel-reservation/internal/handler/httperr"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware guards staff-only routes. Guests never authenticate.
type AuthMiddleware struct {
	tokenValidator TokenValidator
}

const ctxClaimsKey = "staff_claims"

var (
	errTokenRequired  = errs.New("access token required")
	errNotAdmin       = errs.New("admin role required")
	errMissingContext = errs.New("auth context missing")
)

func NewAuthMiddleware(tokenValidator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokenValidator: tokenValidator}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token = strings.TrimSpace(token); !ok || token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenRequired, "Access token required", nil)
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("staff token rejected", "error", err.Error(), "expired", errs.Is(err, jwt.ErrExpiredToken))
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := staffClaims(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errMissingContext, "Internal server error", nil)
			return
		}
		if !claims.IsAdmin() {
			httperr.AbortWithError(c, http.StatusForbidden, errNotAdmin, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func staffClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ctxClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

func GetSubject(c *gin.Context) (string, bool) {
	claims, ok := staffClaims(c)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}
