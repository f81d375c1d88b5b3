package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/auth"
)

// SessionCookieName is the cookie the login handler sets and the guard reads.
const SessionCookieName = "auth_token"

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireAuth gates mutating routes on a valid session. CORS preflights pass
// through unconditionally; browsers never attach credentials to them.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		raw := TokenFromRequest(c)

		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Access denied: No token",
			})
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			slog.Default().DebugContext(c.Request.Context(), "session rejected", "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		// Stash the decoded identity on the context
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)

		c.Next()
	}
}

// TokenFromRequest prefers the session cookie; a bearer header is accepted so
// non-browser callers can use the token the login response body returns.
func TokenFromRequest(c *gin.Context) string {
	if raw, err := c.Cookie(SessionCookieName); err == nil && raw != "" {
		return raw
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	}

	return ""
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func UsernameFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUsername)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
