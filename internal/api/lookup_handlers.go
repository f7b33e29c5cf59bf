package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShivamHirwani/quick-desk/internal/repository"
)

// LookupHandler serves read-only reference data.
type LookupHandler struct {
	categories *repository.CategoryRepository
	users      *repository.UserRepository
}

func NewLookupHandler(categories *repository.CategoryRepository, users *repository.UserRepository) *LookupHandler {
	return &LookupHandler{categories: categories, users: users}
}

// ListCategories returns all ticket categories.
func (h *LookupHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "categories not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListAgents returns assignable users. Route-gated to agent/admin.
func (h *LookupHandler) ListAgents(c *gin.Context) {
	staff, err := h.users.ListStaff(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "agents not found")
		return
	}

	agents := make([]gin.H, 0, len(staff))
	for _, u := range staff {
		agents = append(agents, gin.H{
			"id":        u.ID,
			"full_name": u.FullName,
			"email":     u.Email,
			"role":      u.Role,
		})
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}
