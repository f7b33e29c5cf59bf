// Package policy is the single decision point for who may do what. Handlers
// never check roles directly; they ask the Evaluator and translate the
// resulting Decision into an HTTP response.
package policy

import "github.com/ShivamHirwani/quick-desk/internal/models"

// Principal is the authenticated actor making a request.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) IsAdmin() bool {
	return p.Role == string(models.RoleAdmin)
}

func (p Principal) IsStaff() bool {
	return models.IsStaff(p.Role)
}

// DenyKind classifies a denial so the API layer can pick the right status
// code: permission denials map to 403, validation and conflict to 400.
type DenyKind int

const (
	DenyNone DenyKind = iota
	DenyPermission
	DenyValidation
	DenyConflict
)

// Decision is the tagged allow/deny-with-reason result every evaluator
// method returns.
type Decision struct {
	Allowed bool
	Kind    DenyKind
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func DenyForbidden(reason string) Decision {
	return Decision{Kind: DenyPermission, Reason: reason}
}

func DenyInvalid(reason string) Decision {
	return Decision{Kind: DenyValidation, Reason: reason}
}

func DenyBlocked(reason string) Decision {
	return Decision{Kind: DenyConflict, Reason: reason}
}

// Evaluator holds the access rules. It is stateless; a single instance is
// shared by all handlers.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}
