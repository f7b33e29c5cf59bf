package models

import "time"

// Comment is a message on a ticket's thread. Internal comments are visible
// to agents and admins only, never to the ticket owner.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	TicketID   string    `json:"ticket_id" db:"ticket_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Content    string    `json:"content" db:"content"`
	IsInternal bool      `json:"is_internal" db:"is_internal"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Author, joined from users for thread rendering.
	AuthorName  string `json:"author_name" db:"author_name"`
	AuthorEmail string `json:"author_email" db:"author_email"`
	AuthorRole  string `json:"author_role" db:"author_role"`
}

// MaxCommentLength bounds the comment body after trimming.
const MaxCommentLength = 5000

type CreateCommentRequest struct {
	Content    string `json:"content" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}
