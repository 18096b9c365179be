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

// GormTruckRepository implements TruckRepository using GORM
type GormTruckRepository struct {
	db *gorm.DB
}

// NewGormTruckRepository creates a new GormTruckRepository
func NewGormTruckRepository(db *gorm.DB) *GormTruckRepository {
	return &GormTruckRepository{db: db}
}

// FindByIDForOrg finds a truck by ID within an organization
func (r *GormTruckRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*fleet.Truck, error) {
	var model models.TruckModel
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

// FindByRegistration finds a truck by registration number within an organization
func (r *GormTruckRepository) FindByRegistration(ctx context.Context, orgID uuid.UUID, registrationNumber string) (*fleet.Truck, error) {
	var model models.TruckModel
	if err := conn(ctx, r.db).
		Where("organization_id = ? AND registration_number = ?", orgID, strings.ToUpper(strings.TrimSpace(registrationNumber))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg finds trucks for an organization with a total count
func (r *GormTruckRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter fleet.TruckFilter) ([]fleet.Truck, int64, error) {
	query := conn(ctx, r.db).Model(&models.TruckModel{}).Where("organization_id = ?", orgID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("registration_number ILIKE ? OR make ILIKE ? OR model ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var truckModels []models.TruckModel
	if err := applyOrdering(query, filter.Filter, "registration_number ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&truckModels).Error; err != nil {
		return nil, 0, err
	}

	trucks := make([]fleet.Truck, len(truckModels))
	for i, model := range truckModels {
		trucks[i] = *model.ToDomain()
	}
	return trucks, total, nil
}

// Save creates or updates a truck
func (r *GormTruckRepository) Save(ctx context.Context, truck *fleet.Truck) error {
	model := models.TruckModelFromDomain(truck)
	return conn(ctx, r.db).Save(model).Error
}

// DeleteForOrg deletes a truck within an organization
func (r *GormTruckRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.TruckModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ fleet.TruckRepository = (*GormTruckRepository)(nil)
