package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShivamHirwani/quick-desk/internal/policy"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
)

// respondDenied translates a policy denial into its HTTP status: permission
// denials are 403, validation and conflict denials 400.
func respondDenied(c *gin.Context, d policy.Decision) {
	status := http.StatusForbidden
	if d.Kind == policy.DenyValidation || d.Kind == policy.DenyConflict {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": d.Reason})
}

// respondStorageError maps a repository error: missing rows become 404 with
// notFoundMsg, anything else a generic 500 with the original error kept
// server-side only.
func respondStorageError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	slog.Error("storage error",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
