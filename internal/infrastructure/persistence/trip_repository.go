package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/persistence/models"
)

// GormTripRepository implements TripRepository using GORM
type GormTripRepository struct {
	db *gorm.DB
}

// NewGormTripRepository creates a new GormTripRepository
func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

// FindByIDForOrg finds a trip by ID within an organization
func (r *GormTripRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*operations.Trip, error) {
	var model models.TripModel
	if err := conn(ctx, r.db).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg finds trips for an organization with a total count
func (r *GormTripRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter operations.TripFilter) ([]operations.Trip, int64, error) {
	query := conn(ctx, r.db).Model(&models.TripModel{}).Where("organization_id = ?", orgID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.TruckID != nil {
		query = query.Where("truck_id = ?", *filter.TruckID)
	}
	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.FromDate != nil {
		query = query.Where("scheduled_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("scheduled_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("origin ILIKE ? OR destination ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tripModels []models.TripModel
	if err := applyOrdering(query, filter.Filter, "scheduled_date DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&tripModels).Error; err != nil {
		return nil, 0, err
	}

	trips := make([]operations.Trip, len(tripModels))
	for i, model := range tripModels {
		trips[i] = *model.ToDomain()
	}
	return trips, total, nil
}

// Save creates or updates a trip
func (r *GormTripRepository) Save(ctx context.Context, trip *operations.Trip) error {
	model := models.TripModelFromDomain(trip)
	return conn(ctx, r.db).Save(model).Error
}

// DeleteForOrg deletes a trip within an organization
func (r *GormTripRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.TripModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByTruck counts trips referencing a truck
func (r *GormTripRepository) CountByTruck(ctx context.Context, orgID, truckID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.TripModel{}).
		Where("organization_id = ? AND truck_id = ?", orgID, truckID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByDriver counts trips referencing a driver
func (r *GormTripRepository) CountByDriver(ctx context.Context, orgID, driverID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.TripModel{}).
		Where("organization_id = ? AND driver_id = ?", orgID, driverID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomer counts trips referencing a customer
func (r *GormTripRepository) CountByCustomer(ctx context.Context, orgID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.TripModel{}).
		Where("organization_id = ? AND customer_id = ?", orgID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ operations.TripRepository = (*GormTripRepository)(nil)
