package auth

import "servicebay/internal/pkg/errs"

type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleStaff      Role = "STAFF"
	RoleTechnician Role = "TECHNICIAN"
	RoleAdmin      Role = "ADMIN"
)

var ErrInvalidRole = errs.New("invalid role")

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleTechnician, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// IsStaff reports whether the role operates the back office.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

type Action string

const (
	ActionBookingCreate  Action = "booking:create"
	ActionBookingRead    Action = "booking:read"
	ActionBookingList    Action = "booking:list"
	ActionBookingEdit    Action = "booking:edit"
	ActionBookingCancel  Action = "booking:cancel"
	ActionBookingAdvance Action = "booking:advance"
	ActionSagaResume     Action = "saga:resume"
	ActionPaymentCapture Action = "payment:capture"
	ActionInvoiceRead    Action = "invoice:read"
	ActionJobAssign      Action = "job:assign"
	ActionJobRead        Action = "job:read"
	ActionJobList        Action = "job:list"
	ActionJobAdvance     Action = "job:advance"
	ActionJobCancel      Action = "job:cancel"
	ActionTechnicianList Action = "technician:list"
	ActionFeedbackSubmit Action = "feedback:submit"
	ActionFeedbackRead   Action = "feedback:read"
)
