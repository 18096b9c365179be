package fleet

import (
	"context"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TruckFilter contains filter options for querying trucks
type TruckFilter struct {
	shared.Filter
	Status *TruckStatus
}

// TruckRepository defines the interface for truck persistence
type TruckRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Truck, error)
	FindByRegistration(ctx context.Context, orgID uuid.UUID, registrationNumber string) (*Truck, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter TruckFilter) ([]Truck, int64, error)
	Save(ctx context.Context, truck *Truck) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}

// DriverFilter contains filter options for querying drivers
type DriverFilter struct {
	shared.Filter
	Status *DriverStatus
}

// DriverRepository defines the interface for driver persistence
type DriverRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Driver, error)
	FindByLicense(ctx context.Context, orgID uuid.UUID, licenseNumber string) (*Driver, error)
	FindByAssignedTruck(ctx context.Context, orgID, truckID uuid.UUID) (*Driver, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter DriverFilter) ([]Driver, int64, error)
	Save(ctx context.Context, driver *Driver) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error
}
