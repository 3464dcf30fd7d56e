package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"room-booking/internal/domain/actor"
	"room-booking/internal/handler/httperr"
	"room-booking/internal/pkg/cookie"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxActorKey     = "actor"
	ctxJWTClaimsKey = "jwt_claims"
)

var errMissingActor = errs.New("no authenticated actor in context")

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing access token"), "Access token required", nil)
			return
		}

		a, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		setActor(c, a)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := GetActor(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
			return
		}
		if !a.IsAdmin() {
			httperr.AbortWithError(c, http.StatusForbidden, errs.New("admin role required"), "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			c.Next()
			return
		}
		if a, err := m.tokenValidator.ValidateToken(token); err == nil {
			setActor(c, a)
		}
		c.Next()
	}
}

func GetActor(c *gin.Context) (actor.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return actor.Actor{}, false
	}
	a, ok := v.(actor.Actor)
	return a, ok
}

// accessToken prefers the bearer header and falls back to the access token cookie.
func accessToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return cookie.GetAccessToken(c)
}

func setActor(c *gin.Context, a actor.Actor) {
	c.Set(ctxActorKey, a)
	c.Set(ctxJWTClaimsKey, map[string]any{
		"sub":  a.ID(),
		"role": a.Role().String(),
	})
}
