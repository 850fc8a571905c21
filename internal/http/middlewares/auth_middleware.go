package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/finbrain-api/internal/actorctx"
	"github.com/orionjupiterai/finbrain-api/internal/domain/session"
)

// SessionResolver is the single session-store method auth needs; kept
// narrow so handler tests can fake it.
type SessionResolver interface {
	GetByToken(ctx context.Context, token string) (session.Session, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
}

func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

const bearerPrefix = "Bearer "

// RequireAuth resolves the bearer token to a session and stashes the user
// email on both the gin context and the request context. A missing or
// malformed header and an unknown token are distinct failures: the first
// never touches the store.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) || header == bearerPrefix {
			abortUnauthorized(c, "not_authenticated", "Not authenticated")
			return
		}

		token := strings.TrimPrefix(header, bearerPrefix)

		cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		sess, err := m.sessions.GetByToken(cctx, token)
		cancel()
		if err != nil {
			abortUnauthorized(c, "invalid_token", "Invalid token")
			return
		}

		c.Set(string(CtxUserEmail), sess.UserEmail)
		c.Request = c.Request.WithContext(actorctx.WithUserEmail(c.Request.Context(), sess.UserEmail))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// UserEmailFromContext returns the email RequireAuth stored for this
// request.
func UserEmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(string(CtxUserEmail))
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok && email != ""
}
