package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShivamHirwani/quick-desk/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCanViewTicket(t *testing.T) {
	eval := NewEvaluator()
	ticket := TicketRef{OwnerID: "owner-1", Status: models.StatusOpen}
	assigned := TicketRef{OwnerID: "owner-1", AssigneeID: strPtr("agent-1"), Status: models.StatusOpen}

	tests := []struct {
		name      string
		principal Principal
		ticket    TicketRef
		want      bool
	}{
		{"admin sees any ticket", Principal{ID: "admin-1", Role: "admin"}, ticket, true},
		{"agent sees any ticket", Principal{ID: "agent-9", Role: "agent"}, ticket, true},
		{"owner sees own ticket", Principal{ID: "owner-1", Role: "user"}, ticket, true},
		{"stranger denied", Principal{ID: "user-2", Role: "user"}, ticket, false},
		{"assignee sees assigned ticket", Principal{ID: "agent-1", Role: "agent"}, assigned, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := eval.CanViewTicket(tt.principal, tt.ticket)
			assert.Equal(t, tt.want, d.Allowed)
			if !tt.want {
				assert.Equal(t, DenyPermission, d.Kind)
			}
		})
	}
}

func TestTicketScope(t *testing.T) {
	eval := NewEvaluator()

	assert.Empty(t, eval.TicketScope(Principal{ID: "a", Role: "admin"}))
	assert.Empty(t, eval.TicketScope(Principal{ID: "b", Role: "agent"}))
	assert.Equal(t, "c", eval.TicketScope(Principal{ID: "c", Role: "user"}))
}

func TestCanChangeStatus(t *testing.T) {
	eval := NewEvaluator()
	own := TicketRef{OwnerID: "user-1", Status: models.StatusOpen}
	foreign := TicketRef{OwnerID: "user-2", Status: models.StatusOpen}
	closed := TicketRef{OwnerID: "user-1", Status: models.StatusClosed}

	tests := []struct {
		name      string
		principal Principal
		ticket    TicketRef
		target    string
		want      bool
		kind      DenyKind
	}{
		{"user resolves own ticket", Principal{ID: "user-1", Role: "user"}, own, models.StatusResolved, true, DenyNone},
		{"user closes own ticket", Principal{ID: "user-1", Role: "user"}, own, models.StatusClosed, true, DenyNone},
		{"user cannot set in_progress", Principal{ID: "user-1", Role: "user"}, own, models.StatusInProgress, false, DenyPermission},
		{"user cannot reopen", Principal{ID: "user-1", Role: "user"}, closed, models.StatusOpen, false, DenyPermission},
		{"user cannot touch foreign ticket", Principal{ID: "user-1", Role: "user"}, foreign, models.StatusResolved, false, DenyPermission},
		{"agent sets any status", Principal{ID: "agent-1", Role: "agent"}, foreign, models.StatusInProgress, true, DenyNone},
		{"agent reopens closed ticket", Principal{ID: "agent-1", Role: "agent"}, closed, models.StatusOpen, true, DenyNone},
		{"admin sets any status", Principal{ID: "admin-1", Role: "admin"}, foreign, models.StatusClosed, true, DenyNone},
		{"invalid status is validation error", Principal{ID: "admin-1", Role: "admin"}, own, "reopened", false, DenyValidation},
		{"invalid status for user too", Principal{ID: "user-1", Role: "user"}, own, "done", false, DenyValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := eval.CanChangeStatus(tt.principal, tt.ticket, tt.target)
			assert.Equal(t, tt.want, d.Allowed)
			assert.Equal(t, tt.kind, d.Kind)
		})
	}
}

func TestCanChangeStatusDistinctReasons(t *testing.T) {
	eval := NewEvaluator()
	p := Principal{ID: "user-1", Role: "user"}

	notYours := eval.CanChangeStatus(p, TicketRef{OwnerID: "user-2"}, models.StatusResolved)
	wrongTarget := eval.CanChangeStatus(p, TicketRef{OwnerID: "user-1"}, models.StatusInProgress)

	assert.False(t, notYours.Allowed)
	assert.False(t, wrongTarget.Allowed)
	assert.NotEqual(t, notYours.Reason, wrongTarget.Reason)
}

func TestCanAssignTicket(t *testing.T) {
	eval := NewEvaluator()

	assert.True(t, eval.CanAssignTicket(Principal{ID: "a", Role: "agent"}).Allowed)
	assert.True(t, eval.CanAssignTicket(Principal{ID: "b", Role: "admin"}).Allowed)

	d := eval.CanAssignTicket(Principal{ID: "c", Role: "user"})
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyPermission, d.Kind)
}

func TestValidateAssignee(t *testing.T) {
	eval := NewEvaluator()

	assert.True(t, eval.ValidateAssignee(&models.User{ID: "x", Role: "agent"}).Allowed)
	assert.True(t, eval.ValidateAssignee(&models.User{ID: "x", Role: "admin"}).Allowed)

	// A plain user is an invalid target regardless of who asks, and it is a
	// validity error rather than a permission one.
	d := eval.ValidateAssignee(&models.User{ID: "x", Role: "user"})
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyValidation, d.Kind)

	d = eval.ValidateAssignee(nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyValidation, d.Kind)
}
