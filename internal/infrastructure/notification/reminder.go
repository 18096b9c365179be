package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appbilling "github.com/fleetops/backend/internal/application/billing"
	"github.com/fleetops/backend/internal/domain/partner"
)

// InvoiceReminderNotifier delivers on-demand payment reminders over both
// channels: an email to the customer and an immediate agent trigger.
type InvoiceReminderNotifier struct {
	agent     *AgentClient
	email     EmailSender
	customers partner.CustomerRepository
	logger    *zap.Logger
}

// NewInvoiceReminderNotifier creates a new InvoiceReminderNotifier
func NewInvoiceReminderNotifier(agent *AgentClient, email EmailSender, customers partner.CustomerRepository, logger *zap.Logger) *InvoiceReminderNotifier {
	return &InvoiceReminderNotifier{agent: agent, email: email, customers: customers, logger: logger}
}

// SendReminder emails the customer about the outstanding balance and posts
// the reminder trigger to the agent. A customer without an email address
// only gets the agent-side reminder.
func (n *InvoiceReminderNotifier) SendReminder(ctx context.Context, notice appbilling.ReminderNotice) error {
	customer, err := n.customers.FindByIDForOrg(ctx, notice.OrganizationID, notice.CustomerID)
	if err != nil {
		return fmt.Errorf("notification: failed to load customer for invoice %s: %w", notice.InvoiceNumber, err)
	}

	if customer.Email != "" {
		body := fmt.Sprintf("This is a reminder that invoice %s has an outstanding balance of %s.", notice.InvoiceNumber, notice.Balance)
		if notice.DueDate != nil {
			body += fmt.Sprintf(" It is due on %s.", notice.DueDate.Format("2006-01-02"))
		}
		msg := EmailMessage{
			To:      customer.Email,
			Subject: fmt.Sprintf("Payment reminder for invoice %s", notice.InvoiceNumber),
			Body:    body,
		}
		if err := n.email.Send(ctx, msg); err != nil {
			n.logger.Error("reminder email failed",
				zap.String("invoice_number", notice.InvoiceNumber),
				zap.Error(err),
			)
		}
	}

	return n.agent.NotifyInvoiceReminder(ctx, InvoiceReminderPayload{
		InvoiceID:       notice.InvoiceID,
		OrganizationID:  notice.OrganizationID,
		SendImmediately: true,
	})
}

var _ appbilling.ReminderNotifier = (*InvoiceReminderNotifier)(nil)
