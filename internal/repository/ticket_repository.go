package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ShivamHirwani/quick-desk/internal/models"
)

// TicketRepository handles database operations for tickets
type TicketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketSelect = `
	SELECT t.id, t.subject, t.description, t.status, t.priority,
	       t.category_id, t.user_id, t.assigned_agent_id,
	       t.upvotes, t.downvotes, t.created_at, t.updated_at,
	       c.name AS category_name, c.color AS category_color,
	       o.full_name AS owner_name, a.full_name AS assignee_name
	FROM tickets t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN users o ON o.id = t.user_id
	LEFT JOIN users a ON a.id = t.assigned_agent_id`

// sortColumns whitelists the list endpoint's sortable columns.
var sortColumns = map[string]string{
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
	"priority":   "t.priority",
	"status":     "t.status",
	"subject":    "t.subject",
}

// Create inserts a new ticket with status open.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	ticket.ID = uuid.New().String()
	ticket.Status = models.StatusOpen
	now := time.Now().UTC()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO tickets (id, subject, description, status, priority,
		                     category_id, user_id, assigned_agent_id,
		                     upvotes, downvotes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		ticket.ID, ticket.Subject, ticket.Description, ticket.Status,
		ticket.Priority, ticket.CategoryID, ticket.UserID, ticket.AssignedAgentID,
		ticket.CreatedAt, ticket.UpdatedAt,
	)
	return err
}

// GetByID retrieves a ticket with its joined display fields.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	query := r.db.Rebind(ticketSelect + " WHERE t.id = ?")
	err := r.db.GetContext(ctx, &ticket, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// List retrieves tickets matching the filter. The filter's OwnerID is the
// role scope: when set, only that user's tickets are ever returned.
func (r *TicketRepository) List(ctx context.Context, filter models.TicketFilter) ([]*models.Ticket, error) {
	var (
		conds []string
		args  []any
	)

	if filter.OwnerID != "" {
		conds = append(conds, "t.user_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" && filter.Status != "all" {
		conds = append(conds, "t.status = ?")
		args = append(args, filter.Status)
	}
	if filter.CategoryID != "" {
		conds = append(conds, "t.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, "(t.subject LIKE ? OR t.description LIKE ?)")
		args = append(args, pattern, pattern)
	}

	query := ticketSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	sortCol, ok := sortColumns[filter.Sort]
	if !ok {
		sortCol = "t.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}
	query += " ORDER BY " + sortCol + " " + direction

	var tickets []*models.Ticket
	if err := r.db.SelectContext(ctx, &tickets, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return tickets, nil
}

// UpdateStatus performs a status transition as a single synchronous row
// update, touching updated_at as a side effect.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := r.db.Rebind("UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Assign sets or clears the assigned agent.
func (r *TicketRepository) Assign(ctx context.Context, id string, agentID *string) error {
	query := r.db.Rebind("UPDATE tickets SET assigned_agent_id = ?, updated_at = ? WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, agentID, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// AutoCloseResolved moves tickets resolved before the cutoff to closed in
// one set-wide update and reports how many rows changed.
func (r *TicketRepository) AutoCloseResolved(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.db.Rebind(`
		UPDATE tickets SET status = ?, updated_at = ?
		WHERE status = ? AND updated_at < ?`)
	result, err := r.db.ExecContext(ctx, query,
		models.StatusClosed, time.Now().UTC(), models.StatusResolved, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
