package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/persistence/models"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForOrg finds a payment by ID within an organization
func (r *GormPaymentRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Payment, error) {
	var model models.PaymentModel
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

// FindAllForOrg finds payments for an organization with a total count
func (r *GormPaymentRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter billing.PaymentFilter) ([]billing.Payment, int64, error) {
	query := conn(ctx, r.db).Model(&models.PaymentModel{}).Where("organization_id = ?", orgID)

	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.FromDate != nil {
		query = query.Where("payment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payment_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("reference ILIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var paymentModels []models.PaymentModel
	if err := applyOrdering(query, filter.Filter, "payment_date DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&paymentModels).Error; err != nil {
		return nil, 0, err
	}

	payments := make([]billing.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, total, nil
}

// FindByInvoice finds all payments for an invoice
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := conn(ctx, r.db).
		Where("organization_id = ? AND invoice_id = ?", orgID, invoiceID).
		Order("payment_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]billing.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return conn(ctx, r.db).Save(model).Error
}

// DeleteForOrg deletes a payment within an organization
func (r *GormPaymentRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.PaymentModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByInvoice counts payments referencing an invoice
func (r *GormPaymentRepository) CountByInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("organization_id = ? AND invoice_id = ?", orgID, invoiceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
