package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ShivamHirwani/quick-desk/internal/middleware"
	"github.com/ShivamHirwani/quick-desk/internal/models"
	"github.com/ShivamHirwani/quick-desk/internal/policy"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
	"github.com/ShivamHirwani/quick-desk/internal/session"
)

// UserHandler covers admin account management and profile access.
type UserHandler struct {
	users    *repository.UserRepository
	sessions session.Store
	eval     *policy.Evaluator
}

func NewUserHandler(users *repository.UserRepository, sessions session.Store, eval *policy.Evaluator) *UserHandler {
	return &UserHandler{users: users, sessions: sessions, eval: eval}
}

// ListUsers returns the account directory (admin only).
func (h *UserHandler) ListUsers(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if d := h.eval.CanListUsers(p); !d.Allowed {
		respondDenied(c, d)
		return
	}

	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "users not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser lets an admin create an account with an explicit role.
func (h *UserHandler) CreateUser(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if d := h.eval.CanCreateUser(p); !d.Allowed {
		respondDenied(c, d)
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		slog.Error("password hash failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already taken"})
			return
		}
		respondStorageError(c, err, "user not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetUser returns a single profile: self-view, or any profile for admins.
func (h *UserHandler) GetUser(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	id := c.Param("id")
	if d := h.eval.CanViewUser(p, id); !d.Allowed {
		respondDenied(c, d)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStorageError(c, err, "user not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser applies a partial profile update. Role handling is the strict
// part: non-admins may not send a role at all, and nobody changes their own.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	id := c.Param("id")
	if d := h.eval.CanEditUser(p, id); !d.Allowed {
		respondDenied(c, d)
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStorageError(c, err, "user not found")
		return
	}

	if req.Role != nil {
		if !p.IsAdmin() {
			respondDenied(c, policy.DenyForbidden("cannot change role"))
			return
		}
		if *req.Role != existing.Role {
			if d := h.eval.CanChangeRole(p, id, *req.Role); !d.Allowed {
				respondDenied(c, d)
				return
			}
			existing.Role = *req.Role
		}
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != "" && email != existing.Email {
			taken, err := h.users.EmailTaken(c.Request.Context(), email, id)
			if err != nil {
				respondStorageError(c, err, "user not found")
				return
			}
			if taken {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already taken"})
				return
			}
			existing.Email = email
		}
	}

	if req.FullName != nil {
		if name := strings.TrimSpace(*req.FullName); name != "" {
			existing.FullName = name
		}
	}

	if err := h.users.Update(c.Request.Context(), existing); err != nil {
		respondStorageError(c, err, "user not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": existing})
}

// DeleteUser removes an account: admin only, never self, and blocked while
// the target still owns or is assigned to any ticket.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	id := c.Param("id")
	if d := h.eval.CanDeleteUser(p, id); !d.Allowed {
		respondDenied(c, d)
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), id); err != nil {
		respondStorageError(c, err, "user not found")
		return
	}

	count, err := h.users.CountTicketsFor(c.Request.Context(), []string{id})
	if err != nil {
		respondStorageError(c, err, "user not found")
		return
	}
	if d := h.eval.TicketGuard(count); !d.Allowed {
		respondDenied(c, d)
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondStorageError(c, err, "user not found")
		return
	}

	if err := h.sessions.DeleteByUser(c.Request.Context(), id); err != nil {
		slog.Warn("session revocation failed", "user_id", id, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// BulkUsers applies one mutation to a set of users as a single outcome.
// Every pre-check runs before any row changes; there is no partial
// application and no per-item result reporting.
func (h *UserHandler) BulkUsers(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req models.BulkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data"})
		return
	}

	if d := h.eval.CanBulkOperate(p, req.UserIDs); !d.Allowed {
		respondDenied(c, d)
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case models.BulkActionDelete:
		count, err := h.users.CountTicketsFor(ctx, req.UserIDs)
		if err != nil {
			respondStorageError(c, err, "users not found")
			return
		}
		if d := h.eval.TicketGuard(count); !d.Allowed {
			respondDenied(c, d)
			return
		}

		if err := h.users.DeleteMany(ctx, req.UserIDs); err != nil {
			respondStorageError(c, err, "users not found")
			return
		}
		for _, id := range req.UserIDs {
			if err := h.sessions.DeleteByUser(ctx, id); err != nil {
				slog.Warn("session revocation failed", "user_id", id, "error", err)
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "users deleted successfully"})

	case models.BulkActionUpdateRole:
		if !models.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		if err := h.users.UpdateRoleMany(ctx, req.UserIDs, req.Role); err != nil {
			respondStorageError(c, err, "users not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "user roles updated successfully"})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
	}
}
