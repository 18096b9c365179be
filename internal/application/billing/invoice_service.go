package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/partner"
	"github.com/fleetops/backend/internal/domain/shared"
)

// ReminderNotice carries the data a reminder channel needs about an invoice
type ReminderNotice struct {
	InvoiceID      uuid.UUID
	OrganizationID uuid.UUID
	CustomerID     uuid.UUID
	InvoiceNumber  string
	Balance        string
	DueDate        *time.Time
}

// ReminderNotifier delivers payment reminders out of band
type ReminderNotifier interface {
	SendReminder(ctx context.Context, notice ReminderNotice) error
}

// InvoiceService handles invoice numbering, lifecycle and reminders. Numbers
// are assigned inside the save transaction so the unique index on
// (organization_id, invoice_number) catches concurrent duplicates.
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	paymentRepo    billing.PaymentRepository
	customerRepo   partner.CustomerRepository
	tripRepo       operations.TripRepository
	txManager      shared.TransactionManager
	notifier       ReminderNotifier
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	customerRepo partner.CustomerRepository,
	tripRepo operations.TripRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		tripRepo:     tripRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetReminderNotifier sets the channel used for payment reminders
func (s *InvoiceService) SetReminderNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Create issues a new draft invoice with the next number for the issue year
func (s *InvoiceService) Create(ctx context.Context, actor identity.Actor, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot issue invoices")
	}

	if _, err := s.customerRepo.FindByIDForOrg(ctx, actor.OrganizationID, req.CustomerID); err != nil {
		return nil, err
	}
	if req.TripID != nil {
		if _, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, *req.TripID); err != nil {
			return nil, err
		}
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	var invoice *billing.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		sequence, err := s.invoiceRepo.NextSequence(ctx, actor.OrganizationID, issueDate.Year())
		if err != nil {
			return err
		}
		number := billing.FormatInvoiceNumber(issueDate.Year(), sequence)

		invoice, err = billing.NewInvoice(actor.OrganizationID, number, req.CustomerID, req.Subtotal, req.TaxAmount, issueDate, req.IsCredit, req.DueDate)
		if err != nil {
			return err
		}
		invoice.SetCreatedBy(actor.UserID)
		if req.TripID != nil {
			invoice.LinkTrip(*req.TripID)
		}
		if req.Notes != "" {
			invoice.SetNotes(req.Notes)
		}

		return s.invoiceRepo.Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	s.logger.Info("invoice issued",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.StringFixed(2)),
	)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice
func (s *InvoiceService) GetByID(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, actor.OrganizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, actor identity.Actor, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := billing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		CustomerID: filter.CustomerID,
		TripID:     filter.TripID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
		Overdue:    filter.Overdue,
	}
	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		domainFilter.Status = &status
	}

	invoices, total, err := s.invoiceRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// Update updates an invoice's amounts, due date and notes
func (s *InvoiceService) Update(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot edit invoices")
	}

	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, actor.OrganizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.Subtotal != nil || req.TaxAmount != nil {
		subtotal := invoice.Subtotal
		taxAmount := invoice.TaxAmount
		if req.Subtotal != nil {
			subtotal = *req.Subtotal
		}
		if req.TaxAmount != nil {
			taxAmount = *req.TaxAmount
		}
		if err := invoice.UpdateAmounts(subtotal, taxAmount); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		invoice.SetNotes(*req.Notes)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkSent moves a draft invoice to sent
func (s *InvoiceService) MarkSent(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change invoice status")
	}

	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, actor.OrganizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Cancel cancels an invoice. Invoices with recorded payments cannot be
// cancelled; delete or adjust the payments first.
func (s *InvoiceService) Cancel(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change invoice status")
	}

	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, actor.OrganizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.CountByInvoice(ctx, actor.OrganizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if payments > 0 {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoices with recorded payments cannot be cancelled")
	}

	if err := invoice.Cancel(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// SendReminder sends a payment reminder for an unpaid invoice and records
// when it went out
func (s *InvoiceService) SendReminder(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot send reminders")
	}

	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, actor.OrganizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == billing.InvoiceStatusPaid || invoice.Status == billing.InvoiceStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoice has no outstanding balance to remind about")
	}

	if s.notifier != nil {
		notice := ReminderNotice{
			InvoiceID:      invoice.ID,
			OrganizationID: invoice.OrganizationID,
			CustomerID:     invoice.CustomerID,
			InvoiceNumber:  invoice.InvoiceNumber,
			Balance:        invoice.Balance.StringFixed(2),
			DueDate:        invoice.DueDate,
		}
		if err := s.notifier.SendReminder(ctx, notice); err != nil {
			return nil, shared.NewDomainError("REMINDER_FAILED", "Could not deliver the payment reminder")
		}
	}

	invoice.MarkReminderSent(time.Now())
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("payment reminder sent",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete removes an invoice. Invoices with payments cannot be deleted.
func (s *InvoiceService) Delete(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) error {
	if !actor.CanDelete() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete invoices")
	}

	payments, err := s.paymentRepo.CountByInvoice(ctx, actor.OrganizationID, invoiceID)
	if err != nil {
		return err
	}
	if payments > 0 {
		return shared.NewDomainError("HAS_DEPENDENTS", "Invoice has payments and cannot be deleted")
	}

	if err := s.invoiceRepo.DeleteForOrg(ctx, actor.OrganizationID, invoiceID); err != nil {
		return err
	}

	s.logger.Info("invoice deleted",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, invoice.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish invoice events", zap.Error(err))
	}
	invoice.ClearDomainEvents()
}
