package billing

import (
	"strings"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory groups expenses for reporting (fuel, tolls, repairs, ...)
type ExpenseCategory struct {
	shared.OrgAggregateRoot
	Name        string // Unique per organization
	Description string
}

// NewExpenseCategory creates a new expense category
func NewExpenseCategory(organizationID uuid.UUID, name, description string) (*ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	return &ExpenseCategory{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Description:      strings.TrimSpace(description),
	}, nil
}

// Rename changes the category name
func (c *ExpenseCategory) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}

	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetDescription updates the category description
func (c *ExpenseCategory) SetDescription(description string) {
	c.Description = strings.TrimSpace(description)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Expense represents an operating cost, optionally attached to a trip.
// Trips with attached expenses cannot be deleted.
type Expense struct {
	shared.OrgAggregateRoot
	CategoryID  uuid.UUID
	TripID      *uuid.UUID
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Description string
	Receipt     string // Reference to an uploaded receipt, if any
}

// NewExpense creates a new expense
func NewExpense(organizationID, categoryID uuid.UUID, amount decimal.Decimal, expenseDate time.Time, description string) (*Expense, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}

	return &Expense{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		CategoryID:       categoryID,
		Amount:           amount,
		ExpenseDate:      expenseDate,
		Description:      strings.TrimSpace(description),
	}, nil
}

// LinkTrip attaches the expense to a trip
func (e *Expense) LinkTrip(tripID uuid.UUID) {
	if tripID == uuid.Nil {
		e.TripID = nil
	} else {
		e.TripID = &tripID
	}
	e.touch()
}

// ChangeAmount updates the expense amount
func (e *Expense) ChangeAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	e.Amount = amount
	e.touch()
	return nil
}

// SetCategory moves the expense to a different category
func (e *Expense) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}

	e.CategoryID = categoryID
	e.touch()
	return nil
}

// SetExpenseDate updates the expense date
func (e *Expense) SetExpenseDate(expenseDate time.Time) error {
	if expenseDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}

	e.ExpenseDate = expenseDate
	e.touch()
	return nil
}

// SetDescription updates the description
func (e *Expense) SetDescription(description string) {
	e.Description = strings.TrimSpace(description)
	e.touch()
}

func (e *Expense) touch() {
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}
