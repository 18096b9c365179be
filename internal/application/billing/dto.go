package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/billing"
)

// CreateInvoiceRequest contains fields for issuing an invoice
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID
	TripID     *uuid.UUID
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	IssueDate  time.Time
	DueDate    *time.Time
	IsCredit   bool
	Notes      string
}

// UpdateInvoiceRequest contains mutable invoice fields. Subtotal and
// TaxAmount travel together; a nil member keeps its current value.
type UpdateInvoiceRequest struct {
	Subtotal  *decimal.Decimal
	TaxAmount *decimal.Decimal
	DueDate   *time.Time
	Notes     *string
}

// InvoiceListFilter contains list filter options
type InvoiceListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	Status     string
	CustomerID *uuid.UUID
	TripID     *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	Overdue    *bool
}

// InvoiceResponse is the API projection of an invoice
type InvoiceResponse struct {
	ID             uuid.UUID       `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	TripID         *uuid.UUID      `json:"trip_id,omitempty"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Balance        decimal.Decimal `json:"balance"`
	Status         string          `json:"status"`
	IsCredit       bool            `json:"is_credit"`
	Overdue        bool            `json:"overdue"`
	ReminderSentAt *time.Time      `json:"reminder_sent_at,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to its API projection
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		TripID:         inv.TripID,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		Total:          inv.Total,
		AmountPaid:     inv.AmountPaid,
		Balance:        inv.Balance,
		Status:         string(inv.Status),
		IsCredit:       inv.IsCredit,
		Overdue:        inv.IsOverdue(time.Now()),
		ReminderSentAt: inv.ReminderSentAt,
		Notes:          inv.Notes,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// CreatePaymentRequest contains fields for recording a payment
type CreatePaymentRequest struct {
	InvoiceID   uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      string
	MethodLabel string
	Reference   string
	Notes       string
}

// UpdatePaymentRequest contains mutable payment fields
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal
	PaymentDate *time.Time
	Method      *string
	MethodLabel *string
	Reference   *string
	Notes       *string
}

// PaymentListFilter contains list filter options
type PaymentListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	InvoiceID  *uuid.UUID
	CustomerID *uuid.UUID
	Method     string
	FromDate   *time.Time
	ToDate     *time.Time
}

// PaymentResponse is the API projection of a payment
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      string          `json:"method"`
	MethodLabel string          `json:"method_label,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToPaymentResponse converts a domain payment to its API projection
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		CustomerID:  p.CustomerID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Method:      string(p.Method),
		MethodLabel: p.MethodLabel,
		Reference:   p.Reference,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreateExpenseCategoryRequest contains fields for creating a category
type CreateExpenseCategoryRequest struct {
	Name        string
	Description string
}

// UpdateExpenseCategoryRequest contains mutable category fields
type UpdateExpenseCategoryRequest struct {
	Name        *string
	Description *string
}

// ExpenseCategoryResponse is the API projection of an expense category
type ExpenseCategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToExpenseCategoryResponse converts a domain category to its API projection
func ToExpenseCategoryResponse(c *billing.ExpenseCategory) ExpenseCategoryResponse {
	return ExpenseCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateExpenseRequest contains fields for recording an expense
type CreateExpenseRequest struct {
	CategoryID  uuid.UUID
	TripID      *uuid.UUID
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Description string
}

// UpdateExpenseRequest contains mutable expense fields
type UpdateExpenseRequest struct {
	CategoryID  *uuid.UUID
	TripID      *uuid.UUID
	Amount      *decimal.Decimal
	ExpenseDate *time.Time
	Description *string
}

// ExpenseListFilter contains list filter options
type ExpenseListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	CategoryID *uuid.UUID
	TripID     *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
}

// ExpenseResponse is the API projection of an expense
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	TripID      *uuid.UUID      `json:"trip_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToExpenseResponse converts a domain expense to its API projection
func ToExpenseResponse(e *billing.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		TripID:      e.TripID,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
