package policy

import "github.com/ShivamHirwani/quick-desk/internal/models"

// CanViewUser allows self-view and admin view of anyone.
func (e *Evaluator) CanViewUser(p Principal, targetID string) Decision {
	if p.IsAdmin() || p.ID == targetID {
		return Allow()
	}
	return DenyForbidden("insufficient permissions")
}

// CanListUsers gates the account directory to admins.
func (e *Evaluator) CanListUsers(p Principal) Decision {
	if p.IsAdmin() {
		return Allow()
	}
	return DenyForbidden("insufficient permissions")
}

// CanCreateUser gates admin account creation (registration is the open path
// and always forces role user).
func (e *Evaluator) CanCreateUser(p Principal) Decision {
	if p.IsAdmin() {
		return Allow()
	}
	return DenyForbidden("insufficient permissions")
}

// CanEditUser allows editing own profile or, for admins, any profile.
func (e *Evaluator) CanEditUser(p Principal, targetID string) Decision {
	if p.IsAdmin() || p.ID == targetID {
		return Allow()
	}
	return DenyForbidden("insufficient permissions")
}

// CanChangeRole: only admins set roles, and nobody changes their own role,
// admin included.
func (e *Evaluator) CanChangeRole(p Principal, targetID string, newRole string) Decision {
	if !p.IsAdmin() {
		return DenyForbidden("cannot change role")
	}
	if p.ID == targetID {
		return DenyForbidden("cannot change your own role")
	}
	if !models.ValidRole(newRole) {
		return DenyInvalid("invalid role")
	}
	return Allow()
}

// CanDeleteUser: admin only, never self. The ticket referential guard is
// checked separately against storage (see TicketGuard).
func (e *Evaluator) CanDeleteUser(p Principal, targetID string) Decision {
	if !p.IsAdmin() {
		return DenyForbidden("insufficient permissions")
	}
	if p.ID == targetID {
		return DenyBlocked("cannot delete your own account")
	}
	return Allow()
}

// CanBulkOperate validates a bulk user mutation up front: admin only, a
// non-empty target set, and never including the acting principal. The whole
// batch is a single outcome; a failed pre-check rejects everything.
func (e *Evaluator) CanBulkOperate(p Principal, targetIDs []string) Decision {
	if !p.IsAdmin() {
		return DenyForbidden("insufficient permissions")
	}
	if len(targetIDs) == 0 {
		return DenyInvalid("no target users")
	}
	for _, id := range targetIDs {
		if id == "" {
			return DenyInvalid("malformed target set")
		}
		if id == p.ID {
			return DenyBlocked("cannot perform bulk operations on your own account")
		}
	}
	return Allow()
}

// TicketGuard converts an owned-or-assigned ticket count into the
// referential-integrity decision for user deletion. Enforced in application
// logic, not just storage.
func (e *Evaluator) TicketGuard(ticketCount int) Decision {
	if ticketCount > 0 {
		return DenyBlocked("cannot delete users with associated tickets; reassign tickets first")
	}
	return Allow()
}
