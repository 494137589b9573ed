package domain

// Role represents an actor role in the system
type Role string

const (
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

// Identity is the session context of a logged-in actor: which staff member
// is serving and at which counter. It is always passed into service calls
// explicitly; services never read it from ambient state.
type Identity struct {
	StaffID   uint   `json:"staff_id"`
	StaffName string `json:"staff_name"`
	Counter   string `json:"counter"`
	Role      Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
