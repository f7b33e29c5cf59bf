package policy

import "github.com/ShivamHirwani/quick-desk/internal/models"

// TicketRef is the slice of a ticket the access rules need.
type TicketRef struct {
	OwnerID    string
	AssigneeID *string
	Status     string
}

func RefFromTicket(t *models.Ticket) TicketRef {
	return TicketRef{OwnerID: t.UserID, AssigneeID: t.AssignedAgentID, Status: t.Status}
}

func (t TicketRef) isAssignee(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// CanViewTicket allows staff, the owner, and the assignee.
func (e *Evaluator) CanViewTicket(p Principal, t TicketRef) Decision {
	if p.IsStaff() || t.OwnerID == p.ID || t.isAssignee(p.ID) {
		return Allow()
	}
	return DenyForbidden("access denied")
}

// TicketScope returns the owner id a ticket listing must be restricted to,
// or empty for an unscoped listing. This is a query-level filter, not a
// per-row check.
func (e *Evaluator) TicketScope(p Principal) string {
	if p.IsStaff() {
		return ""
	}
	return p.ID
}

// CanCreateTicket allows any authenticated principal. The owner is always
// forced to the principal server-side, never taken from the request.
func (e *Evaluator) CanCreateTicket(p Principal) Decision {
	return Allow()
}

// CanChangeStatus governs the lifecycle. Staff may move any ticket between
// any two statuses, including back out of closed. A plain user may only
// touch their own ticket, and only to resolve or close it.
func (e *Evaluator) CanChangeStatus(p Principal, t TicketRef, target string) Decision {
	if !models.ValidStatus(target) {
		return DenyInvalid("invalid status")
	}
	if p.IsStaff() {
		return Allow()
	}
	if t.OwnerID != p.ID {
		return DenyForbidden("not your ticket")
	}
	if target != models.StatusResolved && target != models.StatusClosed {
		return DenyForbidden("users can only resolve or close their own tickets")
	}
	return Allow()
}

// CanAssignTicket restricts assignment to staff.
func (e *Evaluator) CanAssignTicket(p Principal) Decision {
	if p.IsStaff() {
		return Allow()
	}
	return DenyForbidden("only agents and admins can assign tickets")
}

// ValidateAssignee checks the assignment target. A candidate without staff
// role is a validity error, not a permission error.
func (e *Evaluator) ValidateAssignee(candidate *models.User) Decision {
	if candidate == nil || !models.IsStaff(candidate.Role) {
		return DenyInvalid("invalid agent selected")
	}
	return Allow()
}
