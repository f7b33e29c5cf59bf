package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ShivamHirwani/quick-desk/internal/auth"
	"github.com/ShivamHirwani/quick-desk/internal/config"
	"github.com/ShivamHirwani/quick-desk/internal/middleware"
	"github.com/ShivamHirwani/quick-desk/internal/models"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
	"github.com/ShivamHirwani/quick-desk/internal/session"
)

// AuthHandler covers registration, login, logout, and principal lookup.
type AuthHandler struct {
	users      *repository.UserRepository
	jwtManager *auth.JWTManager
	sessions   session.Store
	cookieCfg  config.AuthConfig
}

func NewAuthHandler(users *repository.UserRepository, jwtManager *auth.JWTManager, sessions session.Store, cookieCfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtManager: jwtManager,
		sessions:   sessions,
		cookieCfg:  cookieCfg,
	}
}

// Register creates a self-service account. The role is always user; only the
// admin-gated user management path can assign anything else.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: strings.TrimSpace(req.FullName),
		Role:     string(models.RoleUser),
	}
	if err := user.SetPassword(req.Password); err != nil {
		slog.Error("password hash failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		respondStorageError(c, err, "user not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials and issues the signed session token, both in
// the body and as an httpOnly cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondStorageError(c, err, "user not found")
		return
	}

	if !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, sessionID, expiresAt, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.FullName, user.Role)
	if err != nil {
		slog.Error("token generation failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	now := time.Now()
	err = h.sessions.Create(c.Request.Context(), &session.Session{
		ID:         sessionID,
		UserID:     user.ID,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		slog.Error("session create failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	maxAge := int(h.jwtManager.TokenDuration().Seconds())
	c.SetCookie(h.cookieCfg.Session.CookieName, token, maxAge, "/", "", h.cookieCfg.Session.Secure, true)

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	})
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, ok := c.Get(middleware.CtxSessionID); ok {
		if err := h.sessions.Delete(c.Request.Context(), sessionID.(string)); err != nil {
			slog.Warn("session delete failed", "session_id", sessionID, "error", err)
		}
	}
	c.SetCookie(h.cookieCfg.Session.CookieName, "", -1, "/", "", h.cookieCfg.Session.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the acting principal's account, fetched fresh so role changes
// made since login are reflected.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondStorageError(c, err, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
