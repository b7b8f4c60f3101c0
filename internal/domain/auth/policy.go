package auth

import (
	"github.com/google/uuid"

	"servicebay/internal/pkg/errs"
)

// Resource describes the ownership facts the policy needs about the target.
type Resource struct {
	OwnerID    uuid.UUID
	AssigneeID uuid.UUID
}

type rule func(p Principal, r Resource) bool

func anyone(Principal, Resource) bool { return true }

func staffOnly(p Principal, _ Resource) bool { return p.Role.IsStaff() }

func ownerOrStaff(p Principal, r Resource) bool {
	return p.Role.IsStaff() || (p.Role == RoleCustomer && r.OwnerID == p.UserID)
}

func ownerOnly(p Principal, r Resource) bool {
	return p.Role == RoleCustomer && r.OwnerID == p.UserID
}

func assigneeOrStaff(p Principal, r Resource) bool {
	return p.Role.IsStaff() || (p.Role == RoleTechnician && r.AssigneeID == p.UserID)
}

// Customers book for themselves; staff may book on behalf of a customer.
var policy = map[Action]rule{
	ActionBookingCreate:  ownerOrStaff,
	ActionBookingRead:    func(p Principal, r Resource) bool { return ownerOrStaff(p, r) || assigneeOrStaff(p, r) },
	ActionBookingList:    anyone,
	ActionBookingEdit:    ownerOrStaff,
	ActionBookingCancel:  ownerOrStaff,
	ActionBookingAdvance: staffOnly,
	ActionSagaResume:     staffOnly,
	ActionPaymentCapture: ownerOrStaff,
	ActionInvoiceRead:    ownerOrStaff,
	ActionJobAssign:      staffOnly,
	ActionJobRead:        assigneeOrStaff,
	ActionJobList:        func(p Principal, _ Resource) bool { return p.Role.IsStaff() || p.Role == RoleTechnician },
	ActionJobAdvance:     assigneeOrStaff,
	ActionJobCancel:      staffOnly,
	ActionTechnicianList: staffOnly,
	ActionFeedbackSubmit: ownerOnly,
	ActionFeedbackRead:   func(p Principal, r Resource) bool { return ownerOrStaff(p, r) || p.Role == RoleTechnician },
}

// Can is the single authorization decision point.
func Can(p Principal, action Action, r Resource) bool {
	if p.IsZero() {
		return false
	}
	allow, ok := policy[action]
	if !ok {
		return false
	}
	return allow(p, r)
}

// Authorize resolves the session principal and checks the policy in one step.
func Authorize(s *Session, action Action, r Resource) (Principal, error) {
	p, ok := s.Principal()
	if !ok {
		return Principal{}, errs.NewForbidden(string(action))
	}
	if !Can(p, action, r) {
		return Principal{}, errs.NewForbidden(string(action))
	}
	return p, nil
}
