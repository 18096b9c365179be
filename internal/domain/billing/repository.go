package billing

import (
	"context"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter contains filter options for querying invoices
type InvoiceFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	TripID     *uuid.UUID
	Status     *InvoiceStatus
	FromDate   *time.Time
	ToDate     *time.Time
	Overdue    *bool
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (*Invoice, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter InvoiceFilter) ([]Invoice, int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error

	// NextSequence returns the next invoice sequence for the organization
	// and year, derived from the highest existing INV-<year>-NNNN number.
	// Implementations run this inside the surrounding transaction so the
	// unique index on (organization_id, invoice_number) turns a concurrent
	// duplicate into a constraint error instead of silent reuse.
	NextSequence(ctx context.Context, orgID uuid.UUID, year int) (int, error)

	// CountByCustomer counts invoices referencing a customer; used by
	// the customer deletion guard.
	CountByCustomer(ctx context.Context, orgID, customerID uuid.UUID) (int64, error)

	// CountByTrip counts invoices referencing a trip; used by the trip
	// deletion guard.
	CountByTrip(ctx context.Context, orgID, tripID uuid.UUID) (int64, error)
}

// PaymentFilter contains filter options for querying payments
type PaymentFilter struct {
	shared.Filter
	InvoiceID  *uuid.UUID
	CustomerID *uuid.UUID
	Method     *PaymentMethod
	FromDate   *time.Time
	ToDate     *time.Time
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Payment, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter PaymentFilter) ([]Payment, int64, error)
	FindByInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error

	// CountByInvoice counts payments referencing an invoice; used by the
	// invoice deletion guard.
	CountByInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (int64, error)
}

// ExpenseFilter contains filter options for querying expenses
type ExpenseFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	TripID     *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Expense, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter ExpenseFilter) ([]Expense, int64, error)
	Save(ctx context.Context, expense *Expense) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error

	// CountByTrip counts expenses attached to a trip; used by the trip
	// deletion guard.
	CountByTrip(ctx context.Context, orgID, tripID uuid.UUID) (int64, error)
}

// ExpenseCategoryRepository defines the interface for category persistence
type ExpenseCategoryRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*ExpenseCategory, error)
	FindByName(ctx context.Context, orgID uuid.UUID, name string) (*ExpenseCategory, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]ExpenseCategory, error)
	Save(ctx context.Context, category *ExpenseCategory) error
	DeleteForOrg(ctx context.Context, orgID, id uuid.UUID) error

	// CountExpenses counts expenses in a category; used by the category
	// deletion guard.
	CountExpenses(ctx context.Context, orgID, categoryID uuid.UUID) (int64, error)
}
