package billing

import (
	"fmt"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a known invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// AcceptsPayments returns true if payments can be recorded in this status
func (s InvoiceStatus) AcceptsPayments() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice represents a customer invoice. The reconciliation invariant holds
// after every mutation: Balance == Total - AmountPaid, and Status is paid
// exactly when Balance <= 0.
type Invoice struct {
	shared.OrgAggregateRoot
	InvoiceNumber  string // INV-<year>-NNNN, unique per organization
	CustomerID     uuid.UUID
	TripID         *uuid.UUID
	IssueDate      time.Time
	DueDate        *time.Time
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	AmountPaid     decimal.Decimal
	Balance        decimal.Decimal
	Status         InvoiceStatus
	IsCredit       bool
	ReminderSentAt *time.Time
	Notes          string
}

// NewInvoice creates a new draft invoice. Credit invoices defer collection
// to a due date, which is therefore required for them.
func NewInvoice(organizationID uuid.UUID, invoiceNumber string, customerID uuid.UUID, subtotal, taxAmount decimal.Decimal, issueDate time.Time, isCredit bool, dueDate *time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if subtotal.IsNegative() || taxAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Subtotal and tax cannot be negative")
	}
	total := subtotal.Add(taxAmount)
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}
	if isCredit && dueDate == nil {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Credit invoices require a due date")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	inv := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		InvoiceNumber:    invoiceNumber,
		CustomerID:       customerID,
		IssueDate:        issueDate,
		DueDate:          dueDate,
		Subtotal:         subtotal,
		TaxAmount:        taxAmount,
		Total:            total,
		AmountPaid:       decimal.Zero,
		Balance:          total,
		Status:           InvoiceStatusDraft,
		IsCredit:         isCredit,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// LinkTrip ties the invoice to the trip it bills for
func (inv *Invoice) LinkTrip(tripID uuid.UUID) {
	if tripID == uuid.Nil {
		inv.TripID = nil
	} else {
		inv.TripID = &tripID
	}
	inv.touch()
}

// MarkSent moves a draft invoice to sent
func (inv *Invoice) MarkSent() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be marked sent")
	}

	inv.Status = InvoiceStatusSent
	inv.touch()
	return nil
}

// ApplyPayment records a payment against the invoice. The amount may never
// exceed the current balance; on success the derived fields are recomputed.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if !inv.Status.AcceptsPayments() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record a payment on a %s invoice", inv.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(inv.Balance) {
		return shared.NewDomainError("AMOUNT_EXCEEDS_BALANCE",
			fmt.Sprintf("Payment amount %s exceeds invoice balance %s", amount.StringFixed(2), inv.Balance.StringFixed(2)))
	}

	inv.AmountPaid = inv.AmountPaid.Add(amount)
	inv.recalculate()

	if inv.Status == InvoiceStatusPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}

	inv.touch()
	return nil
}

// AdjustPayment applies a signed delta from a payment amount edit. The
// resulting paid amount must stay within [0, Total].
func (inv *Invoice) AdjustPayment(delta decimal.Decimal) error {
	newPaid := inv.AmountPaid.Add(delta)
	if newPaid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Adjustment would make the amount paid negative")
	}
	if newPaid.GreaterThan(inv.Total) {
		return shared.NewDomainError("AMOUNT_EXCEEDS_BALANCE",
			fmt.Sprintf("Adjusted amount paid %s exceeds invoice total %s", newPaid.StringFixed(2), inv.Total.StringFixed(2)))
	}

	wasPaid := inv.Status == InvoiceStatusPaid
	inv.AmountPaid = newPaid
	inv.recalculate()

	if !wasPaid && inv.Status == InvoiceStatusPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}

	inv.touch()
	return nil
}

// ReversePayment removes a deleted payment's amount from the invoice and
// recomputes the derived fields. A fully paid invoice reverts to partial
// while payments remain, or to sent once none do.
func (inv *Invoice) ReversePayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.GreaterThan(inv.AmountPaid) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount exceeds the amount paid")
	}

	inv.AmountPaid = inv.AmountPaid.Sub(amount)
	inv.recalculate()
	inv.touch()
	return nil
}

// UpdateAmounts changes subtotal and tax on a direct invoice edit. The new
// total may not undercut what has already been collected.
func (inv *Invoice) UpdateAmounts(subtotal, taxAmount decimal.Decimal) error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled invoices cannot be edited")
	}
	if subtotal.IsNegative() || taxAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Subtotal and tax cannot be negative")
	}
	total := subtotal.Add(taxAmount)
	if total.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}
	if total.LessThan(inv.AmountPaid) {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice total cannot be below the amount already paid")
	}

	inv.Subtotal = subtotal
	inv.TaxAmount = taxAmount
	inv.Total = total
	inv.recalculate()
	inv.touch()
	return nil
}

// SetDueDate updates the due date
func (inv *Invoice) SetDueDate(dueDate *time.Time) error {
	if inv.IsCredit && dueDate == nil {
		return shared.NewDomainError("INVALID_DUE_DATE", "Credit invoices require a due date")
	}

	inv.DueDate = dueDate
	inv.touch()
	return nil
}

// Cancel cancels the invoice. Paid invoices cannot be cancelled.
func (inv *Invoice) Cancel() error {
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be cancelled")
	}
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}

	inv.Status = InvoiceStatusCancelled
	inv.touch()
	return nil
}

// MarkReminderSent records that a payment reminder went out
func (inv *Invoice) MarkReminderSent(now time.Time) {
	inv.ReminderSentAt = &now
	inv.touch()
}

// SetNotes updates free-form notes
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.touch()
}

// IsOverdue reports whether the invoice is past due. Overdue is derived for
// display and never written back to Status automatically.
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.DueDate == nil {
		return false
	}
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled {
		return false
	}
	return inv.DueDate.Before(now)
}

// recalculate restores the derived-field invariant after AmountPaid or
// Total changed. Status transitions:
//   - balance <= 0            -> paid
//   - amount paid > 0         -> partial
//   - otherwise, a previously paid/partial invoice falls back to sent;
//     draft and sent invoices keep their status.
func (inv *Invoice) recalculate() {
	inv.Balance = inv.Total.Sub(inv.AmountPaid)

	switch {
	case inv.Balance.LessThanOrEqual(decimal.Zero):
		inv.Status = InvoiceStatusPaid
	case inv.AmountPaid.GreaterThan(decimal.Zero):
		inv.Status = InvoiceStatusPartial
	default:
		if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusPartial {
			inv.Status = InvoiceStatusSent
		}
	}
}

func (inv *Invoice) touch() {
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// FormatInvoiceNumber renders the canonical invoice number for a given year
// and sequence, e.g. INV-2026-0042.
func FormatInvoiceNumber(year, sequence int) string {
	return fmt.Sprintf("INV-%d-%04d", year, sequence)
}
