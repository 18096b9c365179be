package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/fleet"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/persistence/models"
)

// GormDriverRepository implements DriverRepository using GORM
type GormDriverRepository struct {
	db *gorm.DB
}

// NewGormDriverRepository creates a new GormDriverRepository
func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// FindByIDForOrg finds a driver by ID within an organization
func (r *GormDriverRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*fleet.Driver, error) {
	var model models.DriverModel
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

// FindByLicense finds a driver by license number within an organization
func (r *GormDriverRepository) FindByLicense(ctx context.Context, orgID uuid.UUID, licenseNumber string) (*fleet.Driver, error) {
	var model models.DriverModel
	if err := conn(ctx, r.db).
		Where("organization_id = ? AND license_number = ?", orgID, strings.ToUpper(strings.TrimSpace(licenseNumber))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAssignedTruck finds the driver currently holding a truck, if any
func (r *GormDriverRepository) FindByAssignedTruck(ctx context.Context, orgID, truckID uuid.UUID) (*fleet.Driver, error) {
	var model models.DriverModel
	if err := conn(ctx, r.db).
		Where("organization_id = ? AND assigned_truck_id = ?", orgID, truckID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg finds drivers for an organization with a total count
func (r *GormDriverRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter fleet.DriverFilter) ([]fleet.Driver, int64, error) {
	query := conn(ctx, r.db).Model(&models.DriverModel{}).Where("organization_id = ?", orgID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR license_number ILIKE ? OR phone ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var driverModels []models.DriverModel
	if err := applyOrdering(query, filter.Filter, "name ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&driverModels).Error; err != nil {
		return nil, 0, err
	}

	drivers := make([]fleet.Driver, len(driverModels))
	for i, model := range driverModels {
		drivers[i] = *model.ToDomain()
	}
	return drivers, total, nil
}

// Save creates or updates a driver
func (r *GormDriverRepository) Save(ctx context.Context, driver *fleet.Driver) error {
	model := models.DriverModelFromDomain(driver)
	return conn(ctx, r.db).Save(model).Error
}

// DeleteForOrg deletes a driver within an organization
func (r *GormDriverRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.DriverModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ fleet.DriverRepository = (*GormDriverRepository)(nil)
