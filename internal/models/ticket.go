package models

import "time"

type Ticket struct {
	ID              string    `json:"id" db:"id"`
	Subject         string    `json:"subject" db:"subject"`
	Description     string    `json:"description" db:"description"`
	Status          string    `json:"status" db:"status"`
	Priority        string    `json:"priority" db:"priority"`
	CategoryID      *string   `json:"category_id" db:"category_id"`
	UserID          string    `json:"user_id" db:"user_id"`
	AssignedAgentID *string   `json:"assigned_agent_id" db:"assigned_agent_id"`
	Upvotes         int       `json:"upvotes" db:"upvotes"`
	Downvotes       int       `json:"downvotes" db:"downvotes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Joined display fields, populated by list/detail queries.
	CategoryName  *string `json:"category_name,omitempty" db:"category_name"`
	CategoryColor *string `json:"category_color,omitempty" db:"category_color"`
	OwnerName     *string `json:"owner_name,omitempty" db:"owner_name"`
	AssigneeName  *string `json:"assignee_name,omitempty" db:"assignee_name"`
}

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type CreateTicketRequest struct {
	Subject     string  `json:"subject" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Priority    string  `json:"priority"`
	CategoryID  *string `json:"category_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignTicketRequest struct {
	AssignedAgentID *string `json:"assigned_agent_id"`
}

// TicketFilter captures the list endpoint's query parameters. OwnerID is the
// role scope filter: when non-empty only that user's tickets are returned.
type TicketFilter struct {
	OwnerID    string
	Status     string
	CategoryID string
	Search     string
	Sort       string
	Order      string
}
