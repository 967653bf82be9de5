package identity

// Role carried by an authenticated caller. Authentication itself lives in
// the surrounding platform; the ledger only consumes the resolved identity.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// Actor is the pre-authenticated caller of a ledger operation.
type Actor struct {
	EmployeeID string
	Role       Role
}

// CanReview reports whether the actor may decide leave requests and mark
// attendance for other employees.
func (a Actor) CanReview() bool {
	return a.Role == RoleReviewer || a.Role == RoleAdmin
}

// IsAdmin reports whether the actor has full administrative rights.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
