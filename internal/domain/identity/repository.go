package identity

import (
	"context"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	Save(ctx context.Context, org *Organization) error
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Role   *Role
	Status *UserStatus
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForOrg finds a user by ID scoped to an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email across organizations (login path)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAllForOrg returns users for an organization with a total count
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter UserFilter) ([]User, int64, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// DeleteForOrg deletes a user scoped to an organization
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}

// EditRequestFilter contains filter options for querying edit requests
type EditRequestFilter struct {
	shared.Filter
	Status     *EditRequestStatus
	EntityType *EditRequestEntityType
	Requester  *uuid.UUID
}

// EditRequestRepository defines the interface for edit request persistence
type EditRequestRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*EditRequest, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter EditRequestFilter) ([]EditRequest, int64, error)
	Save(ctx context.Context, er *EditRequest) error
}
