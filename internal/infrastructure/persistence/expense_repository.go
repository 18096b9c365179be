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

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByIDForOrg finds an expense by ID within an organization
func (r *GormExpenseRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Expense, error) {
	var model models.ExpenseModel
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

// FindAllForOrg finds expenses for an organization with a total count
func (r *GormExpenseRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter billing.ExpenseFilter) ([]billing.Expense, int64, error) {
	query := conn(ctx, r.db).Model(&models.ExpenseModel{}).Where("organization_id = ?", orgID)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.TripID != nil {
		query = query.Where("trip_id = ?", *filter.TripID)
	}
	if filter.FromDate != nil {
		query = query.Where("expense_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("expense_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenseModels []models.ExpenseModel
	if err := applyOrdering(query, filter.Filter, "expense_date DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&expenseModels).Error; err != nil {
		return nil, 0, err
	}

	expenses := make([]billing.Expense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses, total, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *billing.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return conn(ctx, r.db).Save(model).Error
}

// DeleteForOrg deletes an expense within an organization
func (r *GormExpenseRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.ExpenseModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByTrip counts expenses attached to a trip
func (r *GormExpenseRepository) CountByTrip(ctx context.Context, orgID, tripID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.ExpenseModel{}).
		Where("organization_id = ? AND trip_id = ?", orgID, tripID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.ExpenseRepository = (*GormExpenseRepository)(nil)

// GormExpenseCategoryRepository implements ExpenseCategoryRepository using GORM
type GormExpenseCategoryRepository struct {
	db *gorm.DB
}

// NewGormExpenseCategoryRepository creates a new GormExpenseCategoryRepository
func NewGormExpenseCategoryRepository(db *gorm.DB) *GormExpenseCategoryRepository {
	return &GormExpenseCategoryRepository{db: db}
}

// FindByIDForOrg finds a category by ID within an organization
func (r *GormExpenseCategoryRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.ExpenseCategory, error) {
	var model models.ExpenseCategoryModel
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

// FindByName finds a category by its exact name within an organization
func (r *GormExpenseCategoryRepository) FindByName(ctx context.Context, orgID uuid.UUID, name string) (*billing.ExpenseCategory, error) {
	var model models.ExpenseCategoryModel
	if err := conn(ctx, r.db).
		Where("organization_id = ? AND name = ?", orgID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg lists all categories for an organization ordered by name
func (r *GormExpenseCategoryRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]billing.ExpenseCategory, error) {
	var categoryModels []models.ExpenseCategoryModel
	if err := conn(ctx, r.db).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]billing.ExpenseCategory, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormExpenseCategoryRepository) Save(ctx context.Context, category *billing.ExpenseCategory) error {
	model := models.ExpenseCategoryModelFromDomain(category)
	return conn(ctx, r.db).Save(model).Error
}

// DeleteForOrg deletes a category within an organization
func (r *GormExpenseCategoryRepository) DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.ExpenseCategoryModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountExpenses counts expenses in a category
func (r *GormExpenseCategoryRepository) CountExpenses(ctx context.Context, orgID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.ExpenseModel{}).
		Where("organization_id = ? AND category_id = ?", orgID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.ExpenseCategoryRepository = (*GormExpenseCategoryRepository)(nil)
