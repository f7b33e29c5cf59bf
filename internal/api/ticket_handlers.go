package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ShivamHirwani/quick-desk/internal/middleware"
	"github.com/ShivamHirwani/quick-desk/internal/models"
	"github.com/ShivamHirwani/quick-desk/internal/policy"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
)

// TicketHandler handles ticket-related HTTP requests
type TicketHandler struct {
	tickets *repository.TicketRepository
	users   *repository.UserRepository
	eval    *policy.Evaluator
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets *repository.TicketRepository, users *repository.UserRepository, eval *policy.Evaluator) *TicketHandler {
	return &TicketHandler{tickets: tickets, users: users, eval: eval}
}

// ListTickets returns the role-scoped ticket listing with optional filters.
func (h *TicketHandler) ListTickets(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	filter := models.TicketFilter{
		OwnerID:    h.eval.TicketScope(p),
		Status:     c.Query("status"),
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Sort:       c.DefaultQuery("sort", "created_at"),
		Order:      c.DefaultQuery("order", "desc"),
	}

	tickets, err := h.tickets.List(c.Request.Context(), filter)
	if err != nil {
		respondStorageError(c, err, "tickets not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// CreateTicket opens a new ticket. The owner is always the acting principal,
// regardless of anything in the request body.
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if d := h.eval.CanCreateTicket(p); !d.Allowed {
		respondDenied(c, d)
		return
	}

	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
		return
	}

	subject := strings.TrimSpace(req.Subject)
	description := strings.TrimSpace(req.Description)
	if subject == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject and description are required"})
		return
	}

	ticket := &models.Ticket{
		Subject:     subject,
		Description: description,
		Priority:    priority,
		CategoryID:  req.CategoryID,
		UserID:      p.ID,
	}
	if err := h.tickets.Create(c.Request.Context(), ticket); err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

// GetTicket returns a single ticket if the principal may view it.
func (h *TicketHandler) GetTicket(c *gin.Context) {
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

	if d := h.eval.CanViewTicket(p, policy.RefFromTicket(ticket)); !d.Allowed {
		respondDenied(c, d)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// UpdateStatus runs a lifecycle transition through the state machine rules.
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id := c.Param("id")
	ticket, err := h.tickets.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	if d := h.eval.CanChangeStatus(p, policy.RefFromTicket(ticket), req.Status); !d.Allowed {
		respondDenied(c, d)
		return
	}

	if err := h.tickets.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	updated, err := h.tickets.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": updated})
}

// AssignTicket sets or clears a ticket's assigned agent. The ticket and the
// candidate assignee are independent reads, so they are fetched concurrently
// and joined before any decision.
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if d := h.eval.CanAssignTicket(p); !d.Allowed {
		respondDenied(c, d)
		return
	}

	var req models.AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()

	type ticketResult struct {
		ticket *models.Ticket
		err    error
	}
	type userResult struct {
		user *models.User
		err  error
	}

	ticketCh := make(chan ticketResult, 1)
	userCh := make(chan userResult, 1)

	go func() {
		t, err := h.tickets.GetByID(ctx, id)
		ticketCh <- ticketResult{t, err}
	}()
	go func() {
		if req.AssignedAgentID == nil {
			userCh <- userResult{}
			return
		}
		u, err := h.users.GetByID(ctx, *req.AssignedAgentID)
		userCh <- userResult{u, err}
	}()

	tr, ur := <-ticketCh, <-userCh

	if tr.err != nil {
		respondStorageError(c, tr.err, "ticket not found")
		return
	}

	if req.AssignedAgentID != nil {
		// Missing candidate and wrong-role candidate are both invalid
		// targets, not permission failures.
		if ur.err != nil || ur.user == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent selected"})
			return
		}
		if d := h.eval.ValidateAssignee(ur.user); !d.Allowed {
			respondDenied(c, d)
			return
		}
	}

	if err := h.tickets.Assign(ctx, id, req.AssignedAgentID); err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	updated, err := h.tickets.GetByID(ctx, id)
	if err != nil {
		respondStorageError(c, err, "ticket not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": updated})
}
