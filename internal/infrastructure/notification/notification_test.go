package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/partner"
	"github.com/fleetops/backend/internal/infrastructure/config"
)

func newHandlerTestInvoice(t *testing.T, orgID, customerID uuid.UUID) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(orgID, "INV-2026-0042", customerID,
		decimal.NewFromInt(900), decimal.NewFromInt(72), time.Now(), false, nil)
	require.NoError(t, err)
	return inv
}

func newInvoiceCreatedEvent(inv *billing.Invoice) *billing.InvoiceCreatedEvent {
	return billing.NewInvoiceCreatedEvent(inv)
}

func newTestAgent(t *testing.T, handler http.HandlerFunc) *AgentClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAgentClient(&config.NotificationConfig{
		Enabled:      true,
		AgentBaseURL: server.URL,
		Timeout:      2 * time.Second,
	})
}

func TestAgentClient_NotifyTripAssigned(t *testing.T) {
	tripID := uuid.New()
	orgID := uuid.New()

	var got TripAssignedPayload
	var gotPath string
	agent := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	})

	err := agent.NotifyTripAssigned(context.Background(), TripAssignedPayload{
		TripID:          tripID,
		OrganizationID:  orgID,
		SendImmediately: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/webhooks/trip-assigned", gotPath)
	assert.Equal(t, tripID, got.TripID)
	assert.Equal(t, orgID, got.OrganizationID)
	assert.True(t, got.SendImmediately)
}

func TestAgentClient_ErrorStatus(t *testing.T) {
	agent := newTestAgent(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "agent unavailable", http.StatusServiceUnavailable)
	})

	err := agent.NotifyInvoiceReminder(context.Background(), InvoiceReminderPayload{
		InvoiceID:      uuid.New(),
		OrganizationID: uuid.New(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestAgentClient_DisabledIsNoop(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	t.Cleanup(server.Close)

	agent := NewAgentClient(&config.NotificationConfig{
		Enabled:      false,
		AgentBaseURL: server.URL,
		Timeout:      time.Second,
	})

	err := agent.NotifyTripAssigned(context.Background(), TripAssignedPayload{TripID: uuid.New()})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestTripAssignedHandler(t *testing.T) {
	var got TripAssignedPayload
	agent := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})

	handler := NewTripAssignedHandler(agent, zap.NewNop())
	assert.Equal(t, []string{"TripCreated"}, handler.EventTypes())

	trip, err := operations.NewTrip(uuid.New(), uuid.New(), uuid.New(),
		"Rotterdam", "Hamburg", time.Now().Add(48*time.Hour), time.Now())
	require.NoError(t, err)
	evt := operations.NewTripCreatedEvent(trip)

	require.NoError(t, handler.Handle(context.Background(), evt))
	assert.Equal(t, trip.ID, got.TripID)
	assert.Equal(t, trip.OrganizationID, got.OrganizationID)
	assert.True(t, got.SendImmediately)
}

type stubCustomerRepo struct {
	partner.CustomerRepository
	customer *partner.Customer
}

func (s *stubCustomerRepo) FindByIDForOrg(_ context.Context, _, _ uuid.UUID) (*partner.Customer, error) {
	return s.customer, nil
}

type captureEmailSender struct {
	sent []EmailMessage
}

func (c *captureEmailSender) Send(_ context.Context, msg EmailMessage) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestInvoiceCreatedHandler(t *testing.T) {
	orgID := uuid.New()
	customer, err := partner.NewCustomer(orgID, "Acme Haulage")
	require.NoError(t, err)
	customer.SetContact("Jo Miller", "billing@acme.test", "")

	invoice := newHandlerTestInvoice(t, orgID, customer.ID)
	evt := newInvoiceCreatedEvent(invoice)

	var reminder InvoiceReminderPayload
	agent := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhooks/invoice-reminder", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reminder))
	})
	email := &captureEmailSender{}

	handler := NewInvoiceCreatedHandler(agent, email, &stubCustomerRepo{customer: customer}, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), evt))

	require.Len(t, email.sent, 1)
	assert.Equal(t, "billing@acme.test", email.sent[0].To)
	assert.Contains(t, email.sent[0].Subject, invoice.InvoiceNumber)
	assert.Equal(t, invoice.ID, reminder.InvoiceID)
	assert.False(t, reminder.SendImmediately)
}

func TestInvoiceCreatedHandler_NoEmailAddress(t *testing.T) {
	orgID := uuid.New()
	customer, err := partner.NewCustomer(orgID, "Cash Customer")
	require.NoError(t, err)

	invoice := newHandlerTestInvoice(t, orgID, customer.ID)
	evt := newInvoiceCreatedEvent(invoice)

	agent := newTestAgent(t, func(http.ResponseWriter, *http.Request) {})
	email := &captureEmailSender{}

	handler := NewInvoiceCreatedHandler(agent, email, &stubCustomerRepo{customer: customer}, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), evt))

	assert.Empty(t, email.sent)
}
