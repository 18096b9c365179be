package identity

import "github.com/google/uuid"

// Actor identifies the authenticated user performing an operation.
// Services use it for organization scoping and role checks.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           Role
}

// CanManage reports whether the actor may create and edit records
func (a Actor) CanManage() bool { return a.Role.CanManage() }

// CanDelete reports whether the actor may delete records
func (a Actor) CanDelete() bool { return a.Role.CanDelete() }

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
