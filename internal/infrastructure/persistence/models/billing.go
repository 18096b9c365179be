package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/billing"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Invoice numbers are unique per organization; the composite unique index
// is created during migration.
type InvoiceModel struct {
	OrgAggregateModel
	InvoiceNumber  string                `gorm:"type:varchar(20);not null;index"`
	CustomerID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	TripID         *uuid.UUID            `gorm:"type:uuid;index"`
	IssueDate      time.Time             `gorm:"not null;index"`
	DueDate        *time.Time            `gorm:"index"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Total          decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Balance        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status         billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	IsCredit       bool                  `gorm:"not null;default:false"`
	ReminderSentAt *time.Time
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		InvoiceNumber:    m.InvoiceNumber,
		CustomerID:       m.CustomerID,
		TripID:           m.TripID,
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		Subtotal:         m.Subtotal,
		TaxAmount:        m.TaxAmount,
		Total:            m.Total,
		AmountPaid:       m.AmountPaid,
		Balance:          m.Balance,
		Status:           m.Status,
		IsCredit:         m.IsCredit,
		ReminderSentAt:   m.ReminderSentAt,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainOrgAggregateRoot(inv.OrgAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.TripID = inv.TripID
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Subtotal = inv.Subtotal
	m.TaxAmount = inv.TaxAmount
	m.Total = inv.Total
	m.AmountPaid = inv.AmountPaid
	m.Balance = inv.Balance
	m.Status = inv.Status
	m.IsCredit = inv.IsCredit
	m.ReminderSentAt = inv.ReminderSentAt
	m.Notes = inv.Notes
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate.
type PaymentModel struct {
	OrgAggregateModel
	InvoiceID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaymentDate time.Time             `gorm:"not null;index"`
	Method      billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	MethodLabel string                `gorm:"type:varchar(100)"`
	Reference   string                `gorm:"type:varchar(100)"`
	Notes       string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		InvoiceID:        m.InvoiceID,
		CustomerID:       m.CustomerID,
		Amount:           m.Amount,
		PaymentDate:      m.PaymentDate,
		Method:           m.Method,
		MethodLabel:      m.MethodLabel,
		Reference:        m.Reference,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainOrgAggregateRoot(p.OrgAggregateRoot)
	m.InvoiceID = p.InvoiceID
	m.CustomerID = p.CustomerID
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Method = p.Method
	m.MethodLabel = p.MethodLabel
	m.Reference = p.Reference
	m.Notes = p.Notes
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// ExpenseCategoryModel is the persistence model for ExpenseCategory.
type ExpenseCategoryModel struct {
	OrgAggregateModel
	Name        string `gorm:"type:varchar(100);not null;index"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ExpenseCategoryModel) TableName() string {
	return "expense_categories"
}

// ToDomain converts the persistence model to a domain ExpenseCategory.
func (m *ExpenseCategoryModel) ToDomain() *billing.ExpenseCategory {
	return &billing.ExpenseCategory{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Name:             m.Name,
		Description:      m.Description,
	}
}

// FromDomain populates the persistence model from a domain ExpenseCategory.
func (m *ExpenseCategoryModel) FromDomain(c *billing.ExpenseCategory) {
	m.FromDomainOrgAggregateRoot(c.OrgAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
}

// ExpenseCategoryModelFromDomain creates a new persistence model from a domain ExpenseCategory.
func ExpenseCategoryModelFromDomain(c *billing.ExpenseCategory) *ExpenseCategoryModel {
	m := &ExpenseCategoryModel{}
	m.FromDomain(c)
	return m
}

// ExpenseModel is the persistence model for the Expense aggregate.
type ExpenseModel struct {
	OrgAggregateModel
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TripID      *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpenseDate time.Time       `gorm:"not null;index"`
	Description string          `gorm:"type:text"`
	Receipt     string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense.
func (m *ExpenseModel) ToDomain() *billing.Expense {
	return &billing.Expense{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		CategoryID:       m.CategoryID,
		TripID:           m.TripID,
		Amount:           m.Amount,
		ExpenseDate:      m.ExpenseDate,
		Description:      m.Description,
		Receipt:          m.Receipt,
	}
}

// FromDomain populates the persistence model from a domain Expense.
func (m *ExpenseModel) FromDomain(e *billing.Expense) {
	m.FromDomainOrgAggregateRoot(e.OrgAggregateRoot)
	m.CategoryID = e.CategoryID
	m.TripID = e.TripID
	m.Amount = e.Amount
	m.ExpenseDate = e.ExpenseDate
	m.Description = e.Description
	m.Receipt = e.Receipt
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense.
func ExpenseModelFromDomain(e *billing.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}
