package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ShivamHirwani/quick-desk/internal/models"
)

// CommentRepository handles database operations for ticket comments
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListForTicket retrieves a ticket's thread oldest-first with author fields
// joined in. When includeInternal is false, internal rows are excluded at
// query level; callers still run the policy filter over the result.
func (r *CommentRepository) ListForTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*models.Comment, error) {
	query := `
		SELECT cm.id, cm.ticket_id, cm.user_id, cm.content, cm.is_internal, cm.created_at,
		       u.full_name AS author_name, u.email AS author_email, u.role AS author_role
		FROM ticket_comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.ticket_id = ?`
	args := []any{ticketID}
	if !includeInternal {
		query += " AND cm.is_internal = ?"
		args = append(args, false)
	}
	query += " ORDER BY cm.created_at ASC"

	var comments []*models.Comment
	if err := r.db.SelectContext(ctx, &comments, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return comments, nil
}

// Create inserts a comment and touches the parent ticket's updated_at inside
// one transaction, so the thread and the ticket timestamp never diverge.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	insert := r.db.Rebind(`
		INSERT INTO ticket_comments (id, ticket_id, user_id, content, is_internal, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insert,
		comment.ID, comment.TicketID, comment.UserID,
		comment.Content, comment.IsInternal, comment.CreatedAt,
	); err != nil {
		return err
	}

	touch := r.db.Rebind("UPDATE tickets SET updated_at = ? WHERE id = ?")
	if _, err := tx.ExecContext(ctx, touch, comment.CreatedAt, comment.TicketID); err != nil {
		return err
	}

	return tx.Commit()
}
