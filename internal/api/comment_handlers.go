package api

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/ShivamHirwani/quick-desk/internal/middleware"
	"github.com/ShivamHirwani/quick-desk/internal/models"
	"github.com/ShivamHirwani/quick-desk/internal/policy"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
)

// CommentHandler handles ticket comment threads.
type CommentHandler struct {
	comments  *repository.CommentRepository
	tickets   *repository.TicketRepository
	eval      *policy.Evaluator
	sanitizer *bluemonday.Policy
}

func NewCommentHandler(comments *repository.CommentRepository, tickets *repository.TicketRepository, eval *policy.Evaluator) *CommentHandler {
	return &CommentHandler{
		comments:  comments,
		tickets:   tickets,
		eval:      eval,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ListComments returns the visibility-filtered thread for a ticket.
func (h *CommentHandler) ListComments(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	ticket, err := h.tickets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	if d := h.eval.CanListComments(p, policy.RefFromTicket(ticket)); !d.Allowed {
		respondDenied(c, d)
		return
	}

	comments, err := h.comments.ListForTicket(c.Request.Context(), ticket.ID, h.eval.CanSeeInternal(p))
	if err != nil {
		respondStorageError(c, err, "comments not found")
		return
	}

	// The query already excluded internal rows for non-staff; the policy
	// filter runs anyway so the invariant holds on every return path.
	visible := h.eval.FilterComments(p, comments)

	c.JSON(http.StatusOK, gin.H{"comments": visible})
}

// CreateComment appends to a ticket's thread: trim, sanitize, bound, clamp
// the internal flag to the principal's role, stamp the author, then insert
// together with the parent's timestamp touch.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment content is required"})
		return
	}

	ticket, err := h.tickets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	if d := h.eval.CanComment(p, policy.RefFromTicket(ticket)); !d.Allowed {
		respondDenied(c, d)
		return
	}

	content := strings.TrimSpace(h.sanitizer.Sanitize(req.Content))
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment content is required"})
		return
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment is too long (max 5000 characters)"})
		return
	}

	comment := &models.Comment{
		TicketID:   ticket.ID,
		UserID:     p.ID,
		Content:    content,
		IsInternal: h.eval.InternalFlag(p, req.IsInternal),
	}
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	comment.AuthorName = c.GetString(middleware.CtxUserName)
	comment.AuthorEmail = c.GetString(middleware.CtxUserEmail)
	comment.AuthorRole = p.Role

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
