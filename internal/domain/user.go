package domain

// Role represents a caller's access level. Identity is supplied by the
// platform's authentication layer; this service only checks permissions.
type Role string

const (
	// RoleOwner has full access, including reconciliation and posting.
	RoleOwner Role = "owner"

	// RoleManager can reconcile and post for buildings they manage.
	RoleManager Role = "manager"

	// RoleViewer can only read ledger data.
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleOwner:   true,
	RoleManager: true,
	RoleViewer:  true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanReconcile checks if the role may reconcile bank transactions or
// post journals.
func (r Role) CanReconcile() bool {
	return r == RoleOwner || r == RoleManager
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID    string
	Email string
	Role  Role
}
