package policy

import "github.com/ShivamHirwani/quick-desk/internal/models"

// CanListComments mirrors ticket view access: whoever can see the ticket can
// read its thread (internal rows are filtered separately).
func (e *Evaluator) CanListComments(p Principal, t TicketRef) Decision {
	return e.CanViewTicket(p, t)
}

// CanComment requires view access; on a closed ticket only staff may still
// write.
func (e *Evaluator) CanComment(p Principal, t TicketRef) Decision {
	if d := e.CanViewTicket(p, t); !d.Allowed {
		return d
	}
	if !p.IsStaff() && t.Status == models.StatusClosed {
		return DenyForbidden("cannot comment on closed tickets")
	}
	return Allow()
}

// CanSeeInternal reports whether internal comments are visible to the
// principal. The ticket owner never sees them unless they hold a staff role.
func (e *Evaluator) CanSeeInternal(p Principal) bool {
	return p.IsStaff()
}

// InternalFlag clamps a client-supplied internal flag: only staff may mark a
// comment internal, everyone else's flag is forced false.
func (e *Evaluator) InternalFlag(p Principal, requested bool) bool {
	return requested && p.IsStaff()
}

// FilterComments returns the subset of comments the principal may read.
// Applied on every path that returns comments so the invariant holds for any
// future aggregate view too.
func (e *Evaluator) FilterComments(p Principal, comments []*models.Comment) []*models.Comment {
	if e.CanSeeInternal(p) {
		return comments
	}
	visible := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if !c.IsInternal {
			visible = append(visible, c)
		}
	}
	return visible
}
