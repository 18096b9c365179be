package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/persistence/models"
)

// GormEditRequestRepository implements EditRequestRepository using GORM
type GormEditRequestRepository struct {
	db *gorm.DB
}

// NewGormEditRequestRepository creates a new GormEditRequestRepository
func NewGormEditRequestRepository(db *gorm.DB) *GormEditRequestRepository {
	return &GormEditRequestRepository{db: db}
}

// FindByIDForOrg finds an edit request by ID within an organization
func (r *GormEditRequestRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*identity.EditRequest, error) {
	var model models.EditRequestModel
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

// FindAllForOrg finds edit requests for an organization with a total count
func (r *GormEditRequestRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter identity.EditRequestFilter) ([]identity.EditRequest, int64, error) {
	query := conn(ctx, r.db).Model(&models.EditRequestModel{}).Where("organization_id = ?", orgID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.Requester != nil {
		query = query.Where("created_by = ?", *filter.Requester)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requestModels []models.EditRequestModel
	if err := applyOrdering(query, filter.Filter, "created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&requestModels).Error; err != nil {
		return nil, 0, err
	}

	requests := make([]identity.EditRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}
	return requests, total, nil
}

// Save creates or updates an edit request
func (r *GormEditRequestRepository) Save(ctx context.Context, er *identity.EditRequest) error {
	model := models.EditRequestModelFromDomain(er)
	return conn(ctx, r.db).Save(model).Error
}

var _ identity.EditRequestRepository = (*GormEditRequestRepository)(nil)
