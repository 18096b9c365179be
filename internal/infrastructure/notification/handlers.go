package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/partner"
	"github.com/fleetops/backend/internal/domain/shared"
)

// TripAssignedHandler forwards new trip assignments to the messaging agent
type TripAssignedHandler struct {
	agent  *AgentClient
	logger *zap.Logger
}

// NewTripAssignedHandler creates a new TripAssignedHandler
func NewTripAssignedHandler(agent *AgentClient, logger *zap.Logger) *TripAssignedHandler {
	return &TripAssignedHandler{agent: agent, logger: logger}
}

// EventTypes returns the subscribed event types
func (h *TripAssignedHandler) EventTypes() []string {
	return []string{"TripCreated"}
}

// Handle posts the trip-assigned trigger to the agent
func (h *TripAssignedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*operations.TripCreatedEvent)
	if !ok {
		return fmt.Errorf("notification: unexpected event %T for %s", event, event.EventType())
	}

	err := h.agent.NotifyTripAssigned(ctx, TripAssignedPayload{
		TripID:          evt.TripID,
		OrganizationID:  evt.OrganizationID(),
		SendImmediately: true,
	})
	if err != nil {
		return err
	}

	h.logger.Debug("trip assignment forwarded to agent",
		zap.String("trip_id", evt.TripID.String()),
	)
	return nil
}

// InvoiceCreatedHandler emails the customer about a new invoice and
// schedules the agent-side reminder for it
type InvoiceCreatedHandler struct {
	agent     *AgentClient
	email     EmailSender
	customers partner.CustomerRepository
	logger    *zap.Logger
}

// NewInvoiceCreatedHandler creates a new InvoiceCreatedHandler
func NewInvoiceCreatedHandler(agent *AgentClient, email EmailSender, customers partner.CustomerRepository, logger *zap.Logger) *InvoiceCreatedHandler {
	return &InvoiceCreatedHandler{agent: agent, email: email, customers: customers, logger: logger}
}

// EventTypes returns the subscribed event types
func (h *InvoiceCreatedHandler) EventTypes() []string {
	return []string{"InvoiceCreated"}
}

// Handle delivers the email and posts the reminder trigger. A customer
// without an email address only gets the agent-side reminder.
func (h *InvoiceCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*billing.InvoiceCreatedEvent)
	if !ok {
		return fmt.Errorf("notification: unexpected event %T for %s", event, event.EventType())
	}

	customer, err := h.customers.FindByIDForOrg(ctx, evt.OrganizationID(), evt.CustomerID)
	if err != nil {
		return fmt.Errorf("notification: failed to load customer for invoice %s: %w", evt.InvoiceNumber, err)
	}

	if customer.Email != "" {
		kind := "Invoice"
		if evt.IsCredit {
			kind = "Credit note"
		}
		msg := EmailMessage{
			To:      customer.Email,
			Subject: fmt.Sprintf("%s %s", kind, evt.InvoiceNumber),
			Body:    fmt.Sprintf("%s %s for %s has been issued. Amount due: %s.", kind, evt.InvoiceNumber, customer.Name, evt.Total.StringFixed(2)),
		}
		if err := h.email.Send(ctx, msg); err != nil {
			h.logger.Error("invoice email failed",
				zap.String("invoice_number", evt.InvoiceNumber),
				zap.Error(err),
			)
		}
	}

	return h.agent.NotifyInvoiceReminder(ctx, InvoiceReminderPayload{
		InvoiceID:       evt.InvoiceID,
		OrganizationID:  evt.OrganizationID(),
		SendImmediately: false,
	})
}

// UserWelcomeHandler sends the welcome email to newly created users
type UserWelcomeHandler struct {
	email  EmailSender
	logger *zap.Logger
}

// NewUserWelcomeHandler creates a new UserWelcomeHandler
func NewUserWelcomeHandler(email EmailSender, logger *zap.Logger) *UserWelcomeHandler {
	return &UserWelcomeHandler{email: email, logger: logger}
}

// EventTypes returns the subscribed event types
func (h *UserWelcomeHandler) EventTypes() []string {
	return []string{"UserCreated"}
}

// Handle sends the welcome email
func (h *UserWelcomeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*identity.UserCreatedEvent)
	if !ok {
		return fmt.Errorf("notification: unexpected event %T for %s", event, event.EventType())
	}

	return h.email.Send(ctx, EmailMessage{
		To:      evt.Email,
		Subject: "Your account is ready",
		Body:    fmt.Sprintf("Hi %s, your account has been created. Sign in with this email address to get started.", evt.DisplayName),
	})
}

var (
	_ shared.EventHandler = (*TripAssignedHandler)(nil)
	_ shared.EventHandler = (*InvoiceCreatedHandler)(nil)
	_ shared.EventHandler = (*UserWelcomeHandler)(nil)
)
