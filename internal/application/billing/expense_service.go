package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/shared"
)

// ExpenseService handles expense categories and expense records
type ExpenseService struct {
	expenseRepo  billing.ExpenseRepository
	categoryRepo billing.ExpenseCategoryRepository
	tripRepo     operations.TripRepository
	logger       *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo billing.ExpenseRepository,
	categoryRepo billing.ExpenseCategoryRepository,
	tripRepo operations.TripRepository,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		tripRepo:     tripRepo,
		logger:       logger,
	}
}

// CreateCategory creates an expense category
func (s *ExpenseService) CreateCategory(ctx context.Context, actor identity.Actor, req CreateExpenseCategoryRequest) (*ExpenseCategoryResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot manage expense categories")
	}

	if existing, err := s.categoryRepo.FindByName(ctx, actor.OrganizationID, req.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An expense category with this name already exists")
	}

	category, err := billing.NewExpenseCategory(actor.OrganizationID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	category.SetCreatedBy(actor.UserID)

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToExpenseCategoryResponse(category)
	return &response, nil
}

// ListCategories retrieves all expense categories for the organization
func (s *ExpenseService) ListCategories(ctx context.Context, actor identity.Actor) ([]ExpenseCategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllForOrg(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}

	responses := make([]ExpenseCategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToExpenseCategoryResponse(&categories[i])
	}
	return responses, nil
}

// UpdateCategory renames a category or changes its description
func (s *ExpenseService) UpdateCategory(ctx context.Context, actor identity.Actor, categoryID uuid.UUID, req UpdateExpenseCategoryRequest) (*ExpenseCategoryResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot manage expense categories")
	}

	category, err := s.categoryRepo.FindByIDForOrg(ctx, actor.OrganizationID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		if existing, err := s.categoryRepo.FindByName(ctx, actor.OrganizationID, *req.Name); err == nil && existing != nil && existing.ID != categoryID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An expense category with this name already exists")
		}
		if err := category.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		category.SetDescription(*req.Description)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToExpenseCategoryResponse(category)
	return &response, nil
}

// DeleteCategory removes a category. Categories with expenses cannot be
// deleted.
func (s *ExpenseService) DeleteCategory(ctx context.Context, actor identity.Actor, categoryID uuid.UUID) error {
	if !actor.CanDelete() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete expense categories")
	}

	expenses, err := s.categoryRepo.CountExpenses(ctx, actor.OrganizationID, categoryID)
	if err != nil {
		return err
	}
	if expenses > 0 {
		return shared.NewDomainError("HAS_DEPENDENTS", "Category has expenses and cannot be deleted")
	}

	return s.categoryRepo.DeleteForOrg(ctx, actor.OrganizationID, categoryID)
}

// Create records an expense
func (s *ExpenseService) Create(ctx context.Context, actor identity.Actor, req CreateExpenseRequest) (*ExpenseResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot record expenses")
	}

	if _, err := s.categoryRepo.FindByIDForOrg(ctx, actor.OrganizationID, req.CategoryID); err != nil {
		return nil, err
	}
	if req.TripID != nil {
		if _, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, *req.TripID); err != nil {
			return nil, err
		}
	}

	expense, err := billing.NewExpense(actor.OrganizationID, req.CategoryID, req.Amount, req.ExpenseDate, req.Description)
	if err != nil {
		return nil, err
	}
	expense.SetCreatedBy(actor.UserID)
	if req.TripID != nil {
		expense.LinkTrip(*req.TripID)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.String("amount", expense.Amount.StringFixed(2)),
	)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetByID retrieves an expense
func (s *ExpenseService) GetByID(ctx context.Context, actor identity.Actor, expenseID uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForOrg(ctx, actor.OrganizationID, expenseID)
	if err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// List retrieves expenses with filtering and pagination
func (s *ExpenseService) List(ctx context.Context, actor identity.Actor, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := billing.ExpenseFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		CategoryID: filter.CategoryID,
		TripID:     filter.TripID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}

	expenses, total, err := s.expenseRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses, total, nil
}

// Update updates an expense's mutable fields
func (s *ExpenseService) Update(ctx context.Context, actor identity.Actor, expenseID uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot edit expenses")
	}

	expense, err := s.expenseRepo.FindByIDForOrg(ctx, actor.OrganizationID, expenseID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForOrg(ctx, actor.OrganizationID, *req.CategoryID); err != nil {
			return nil, err
		}
		if err := expense.SetCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.TripID != nil {
		if *req.TripID != uuid.Nil {
			if _, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, *req.TripID); err != nil {
				return nil, err
			}
		}
		expense.LinkTrip(*req.TripID)
	}
	if req.Amount != nil {
		if err := expense.ChangeAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.ExpenseDate != nil {
		if err := expense.SetExpenseDate(*req.ExpenseDate); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		expense.SetDescription(*req.Description)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, actor identity.Actor, expenseID uuid.UUID) error {
	if !actor.CanDelete() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete expenses")
	}

	if err := s.expenseRepo.DeleteForOrg(ctx, actor.OrganizationID, expenseID); err != nil {
		return err
	}

	s.logger.Info("expense deleted",
		zap.String("expense_id", expenseID.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}
