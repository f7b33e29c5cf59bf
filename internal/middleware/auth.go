package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ShivamHirwani/quick-desk/internal/auth"
	"github.com/ShivamHirwani/quick-desk/internal/policy"
	"github.com/ShivamHirwani/quick-desk/internal/session"
)

// Context keys set by RequireAuth.
const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
	CtxUserName  = "user_name"
	CtxUserRole  = "user_role"
	CtxSessionID = "session_id"
	CtxClaims    = "claims"
)

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	sessions   session.Store
	cookieName string
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, sessions session.Store, cookieName string) *AuthMiddleware {
	if cookieName == "" {
		cookieName = "auth_token"
	}
	return &AuthMiddleware{jwtManager: jwtManager, sessions: sessions, cookieName: cookieName}
}

// RequireAuth resolves the acting principal from the request's token. It
// fails closed: a missing, unparseable, expired, or revoked token is
// unauthenticated, never a default role.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			m.unauthorizedResponse(c, "not authenticated")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.unauthorizedResponse(c, "invalid or expired token")
			return
		}

		// The signed token is only half the story: the server-side session
		// record must still exist, or the token has been revoked.
		sess, err := m.sessions.Get(c.Request.Context(), claims.SessionID())
		if err != nil || sess == nil {
			m.unauthorizedResponse(c, "session has been terminated")
			return
		}
		if err := m.sessions.Touch(c.Request.Context(), claims.SessionID()); err != nil {
			slog.Debug("session touch failed", "session_id", claims.SessionID(), "error", err)
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxUserName, claims.FullName)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxSessionID, claims.SessionID())
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(CtxUserRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		roleStr := userRole.(string)
		for _, role := range roles {
			if roleStr == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		c.Abort()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}

	return ""
}

func (m *AuthMiddleware) unauthorizedResponse(c *gin.Context, message string) {
	// Browser navigation gets a redirect to the login page; API callers a 401.
	accept := c.GetHeader("Accept")
	if strings.Contains(accept, "text/html") {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}

// Principal rebuilds the policy principal from the gin context. The second
// return is false when RequireAuth did not run.
func Principal(c *gin.Context) (policy.Principal, bool) {
	id, ok := c.Get(CtxUserID)
	if !ok {
		return policy.Principal{}, false
	}
	role, ok := c.Get(CtxUserRole)
	if !ok {
		return policy.Principal{}, false
	}
	return policy.Principal{ID: id.(string), Role: role.(string)}, true
}
