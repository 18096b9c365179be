package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/shared"
)

// PaymentService records money against invoices. Every payment mutation
// recomputes the parent invoice inside the same transaction, so the
// reconciliation invariant survives crashes between the two writes.
type PaymentService struct {
	paymentRepo    billing.PaymentRepository
	invoiceRepo    billing.InvoiceRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	invoiceRepo billing.InvoiceRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a payment against an invoice
func (s *PaymentService) Create(ctx context.Context, actor identity.Actor, req CreatePaymentRequest) (*PaymentResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot record payments")
	}

	var payment *billing.Payment
	var invoice *billing.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		invoice, err = s.invoiceRepo.FindByIDForOrg(ctx, actor.OrganizationID, req.InvoiceID)
		if err != nil {
			return err
		}

		payment, err = billing.NewPayment(actor.OrganizationID, invoice.ID, invoice.CustomerID, req.Amount, req.PaymentDate, billing.PaymentMethod(req.Method), req.MethodLabel)
		if err != nil {
			return err
		}
		payment.SetCreatedBy(actor.UserID)
		if req.Reference != "" {
			payment.SetReference(req.Reference)
		}
		if req.Notes != "" {
			payment.SetNotes(req.Notes)
		}

		if err := invoice.ApplyPayment(payment.Amount); err != nil {
			return err
		}

		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return err
		}
		return s.invoiceRepo.Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, payment.GetDomainEvents()...)
	payment.ClearDomainEvents()
	s.publishEvents(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()

	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("invoice_status", invoice.Status.String()),
	)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a payment
func (s *PaymentService) GetByID(ctx context.Context, actor identity.Actor, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForOrg(ctx, actor.OrganizationID, paymentID)
	if err != nil {
		return nil, err
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, actor identity.Actor, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := billing.PaymentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		InvoiceID:  filter.InvoiceID,
		CustomerID: filter.CustomerID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}
	if filter.Method != "" {
		method := billing.PaymentMethod(filter.Method)
		domainFilter.Method = &method
	}

	payments, total, err := s.paymentRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, total, nil
}

// ListByInvoice retrieves all payments against one invoice in date order
func (s *PaymentService) ListByInvoice(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByInvoice(ctx, actor.OrganizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, nil
}

// Update edits a payment. An amount change feeds its delta into the parent
// invoice, which rejects the edit when the collected total would exceed the
// invoice total.
func (s *PaymentService) Update(ctx context.Context, actor identity.Actor, paymentID uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot edit payments")
	}

	var payment *billing.Payment
	var invoice *billing.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.paymentRepo.FindByIDForOrg(ctx, actor.OrganizationID, paymentID)
		if err != nil {
			return err
		}

		if req.Amount != nil {
			invoice, err = s.invoiceRepo.FindByIDForOrg(ctx, actor.OrganizationID, payment.InvoiceID)
			if err != nil {
				return err
			}
			delta, err := payment.ChangeAmount(*req.Amount)
			if err != nil {
				return err
			}
			if err := invoice.AdjustPayment(delta); err != nil {
				return err
			}
		}
		if req.Method != nil {
			label := payment.MethodLabel
			if req.MethodLabel != nil {
				label = *req.MethodLabel
			}
			if err := payment.SetMethod(billing.PaymentMethod(*req.Method), label); err != nil {
				return err
			}
		}
		if req.PaymentDate != nil {
			if err := payment.SetPaymentDate(*req.PaymentDate); err != nil {
				return err
			}
		}
		if req.Reference != nil {
			payment.SetReference(*req.Reference)
		}
		if req.Notes != nil {
			payment.SetNotes(*req.Notes)
		}

		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return err
		}
		if invoice != nil {
			return s.invoiceRepo.Save(ctx, invoice)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if invoice != nil {
		s.publishEvents(ctx, invoice.GetDomainEvents()...)
		invoice.ClearDomainEvents()
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Delete removes a payment and reverses its amount on the parent invoice
func (s *PaymentService) Delete(ctx context.Context, actor identity.Actor, paymentID uuid.UUID) error {
	if !actor.CanDelete() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete payments")
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.FindByIDForOrg(ctx, actor.OrganizationID, paymentID)
		if err != nil {
			return err
		}
		invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, actor.OrganizationID, payment.InvoiceID)
		if err != nil {
			return err
		}

		if err := invoice.ReversePayment(payment.Amount); err != nil {
			return err
		}

		if err := s.paymentRepo.DeleteForOrg(ctx, actor.OrganizationID, paymentID); err != nil {
			return err
		}
		return s.invoiceRepo.Save(ctx, invoice)
	})
	if err != nil {
		return err
	}

	s.logger.Info("payment deleted",
		zap.String("payment_id", paymentID.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}

func (s *PaymentService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish payment events", zap.Error(err))
	}
}
