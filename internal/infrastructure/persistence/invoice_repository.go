package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForOrg finds an invoice by ID within an organization
func (r *GormInvoiceRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
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

// FindByNumber finds an invoice by its number within an organization
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := conn(ctx, r.db).
		Where("organization_id = ? AND invoice_number = ?", orgID, strings.TrimSpace(invoiceNumber)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg finds invoices for an organization with a total count
func (r *GormInvoiceRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	query := conn(ctx, r.db).Model(&models.InvoiceModel{}).Where("organization_id = ?", orgID)

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.TripID != nil {
		query = query.Where("trip_id = ?", *filter.TripID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("issue_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("issue_date <= ?", *filter.ToDate)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date IS NOT NULL AND due_date < NOW() AND status NOT IN ?",
			[]billing.InvoiceStatus{billing.InvoiceStatusPaid, billing.InvoiceStatusCancelled})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoiceModels []models.InvoiceModel
	if err := applyOrdering(query, filter.Filter, "issue_date DESC, invoice_number DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, total, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return conn(ctx, r.db).Save(model).Error
}

// DeleteForOrg deletes an invoice within an organization
func (r *GormInvoiceRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.InvoiceModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextSequence derives the next invoice sequence for the organization and
// year from the highest existing number. Callers run this inside the
// transaction that inserts the invoice; the unique index on
// (organization_id, invoice_number) rejects a concurrent duplicate.
func (r *GormInvoiceRepository) NextSequence(ctx context.Context, orgID uuid.UUID, year int) (int, error) {
	prefix := fmt.Sprintf("INV-%d-", year)

	var lastNumber string
	err := conn(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("organization_id = ? AND invoice_number LIKE ?", orgID, prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &lastNumber).Error
	if err != nil {
		return 0, err
	}
	if lastNumber == "" {
		return 1, nil
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(lastNumber, prefix))
	if err != nil {
		return 0, fmt.Errorf("malformed invoice number %q: %w", lastNumber, err)
	}
	return seq + 1, nil
}

// CountByCustomer counts invoices referencing a customer
func (r *GormInvoiceRepository) CountByCustomer(ctx context.Context, orgID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("organization_id = ? AND customer_id = ?", orgID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByTrip counts invoices referencing a trip
func (r *GormInvoiceRepository) CountByTrip(ctx context.Context, orgID, tripID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("organization_id = ? AND trip_id = ?", orgID, tripID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
