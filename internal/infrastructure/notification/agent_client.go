package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/infrastructure/config"
)

const (
	tripAssignedPath    = "/webhooks/trip-assigned"
	invoiceReminderPath = "/webhooks/invoice-reminder"
)

// AgentClient delivers notification triggers to the external messaging
// agent over HTTP. The agent owns the actual channel delivery (SMS,
// in-app messaging); this client only posts the trigger payload.
type AgentClient struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client
}

// NewAgentClient creates a new AgentClient from notification config
func NewAgentClient(cfg *config.NotificationConfig) *AgentClient {
	return &AgentClient{
		baseURL: strings.TrimRight(cfg.AgentBaseURL, "/"),
		enabled: cfg.Enabled,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// TripAssignedPayload is the wire payload for trip assignment triggers
type TripAssignedPayload struct {
	TripID          uuid.UUID `json:"tripId"`
	OrganizationID  uuid.UUID `json:"organizationId"`
	SendImmediately bool      `json:"sendImmediately"`
}

// InvoiceReminderPayload is the wire payload for invoice reminder triggers
type InvoiceReminderPayload struct {
	InvoiceID       uuid.UUID `json:"invoiceId"`
	OrganizationID  uuid.UUID `json:"organizationId"`
	SendImmediately bool      `json:"sendImmediately"`
}

// NotifyTripAssigned tells the agent a trip was assigned to a driver
func (c *AgentClient) NotifyTripAssigned(ctx context.Context, payload TripAssignedPayload) error {
	return c.post(ctx, tripAssignedPath, payload)
}

// NotifyInvoiceReminder tells the agent to deliver an invoice reminder
func (c *AgentClient) NotifyInvoiceReminder(ctx context.Context, payload InvoiceReminderPayload) error {
	return c.post(ctx, invoiceReminderPath, payload)
}

func (c *AgentClient) post(ctx context.Context, path string, payload any) error {
	if !c.enabled {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("agent: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("agent: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded slice of the body for the error message
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("agent: %s returned %d: %s", path, resp.StatusCode, string(snippet))
	}
	return nil
}
