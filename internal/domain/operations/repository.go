package operations

import (
	"context"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TripFilter contains filter options for querying trips
type TripFilter struct {
	shared.Filter
	Status     *TripStatus
	TruckID    *uuid.UUID
	DriverID   *uuid.UUID
	CustomerID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
}

// TripRepository defines the interface for trip persistence
type TripRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Trip, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter TripFilter) ([]Trip, int64, error)
	Save(ctx context.Context, trip *Trip) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error

	// CountByTruck counts trips referencing a truck; used by the truck
	// deletion guard.
	CountByTruck(ctx context.Context, orgID, truckID uuid.UUID) (int64, error)

	// CountByDriver counts trips referencing a driver; used by the driver
	// deletion guard.
	CountByDriver(ctx context.Context, orgID, driverID uuid.UUID) (int64, error)

	// CountByCustomer counts trips referencing a customer; used by the
	// customer deletion guard.
	CountByCustomer(ctx context.Context, orgID, customerID uuid.UUID) (int64, error)
}
