package partner

import (
	"context"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerFilter contains filter options for querying customers
type CustomerFilter struct {
	shared.Filter
	Status *CustomerStatus
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Customer, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter CustomerFilter) ([]Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}
