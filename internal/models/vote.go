package models

import "time"

// Vote mirrors the ticket_votes table. The table is reserved schema: no
// endpoint or rule reads or writes it yet, and ticket vote counters stay at
// zero until voting ships.
type Vote struct {
	ID        string    `json:"id" db:"id"`
	TicketID  string    `json:"ticket_id" db:"ticket_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	VoteType  string    `json:"vote_type" db:"vote_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)
