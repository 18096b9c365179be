package billing

import (
	"strings"
	"time"

	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the method is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck,
		PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Payment represents money received against one invoice. Creating, editing
// or deleting a payment always recomputes the parent invoice's amount paid,
// balance and status.
type Payment struct {
	shared.OrgAggregateRoot
	InvoiceID   uuid.UUID
	CustomerID  uuid.UUID // Denormalized from the invoice for reporting
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      PaymentMethod
	MethodLabel string // Required when Method is "other"
	Reference   string
	Notes       string
}

// NewPayment creates a new payment record
func NewPayment(organizationID, invoiceID, customerID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, methodLabel string) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	methodLabel = strings.TrimSpace(methodLabel)
	if method == PaymentMethodOther && methodLabel == "" {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method 'other' requires a label")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	p := &Payment{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		InvoiceID:        invoiceID,
		CustomerID:       customerID,
		Amount:           amount,
		PaymentDate:      paymentDate,
		Method:           method,
		MethodLabel:      methodLabel,
	}

	p.AddDomainEvent(NewPaymentRecordedEvent(p))

	return p, nil
}

// ChangeAmount sets a new amount and returns the signed delta the parent
// invoice must absorb.
func (p *Payment) ChangeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	delta := amount.Sub(p.Amount)
	p.Amount = amount
	p.touch()
	return delta, nil
}

// SetMethod updates the payment method
func (p *Payment) SetMethod(method PaymentMethod, methodLabel string) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	methodLabel = strings.TrimSpace(methodLabel)
	if method == PaymentMethodOther && methodLabel == "" {
		return shared.NewDomainError("INVALID_METHOD", "Payment method 'other' requires a label")
	}
	if method != PaymentMethodOther {
		methodLabel = ""
	}

	p.Method = method
	p.MethodLabel = methodLabel
	p.touch()
	return nil
}

// SetPaymentDate updates the payment date
func (p *Payment) SetPaymentDate(paymentDate time.Time) error {
	if paymentDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Payment date is required")
	}

	p.PaymentDate = paymentDate
	p.touch()
	return nil
}

// SetReference updates the external reference (e.g. bank slip number)
func (p *Payment) SetReference(reference string) {
	p.Reference = strings.TrimSpace(reference)
	p.touch()
}

// SetNotes updates free-form notes
func (p *Payment) SetNotes(notes string) {
	p.Notes = notes
	p.touch()
}

func (p *Payment) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
