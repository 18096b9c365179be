package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/partner"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/persistence"
)

type billingFixture struct {
	invoices   *InvoiceService
	payments   *PaymentService
	customerID uuid.UUID
	actor      identity.Actor
}

func setupBillingServices(t *testing.T) *billingFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))

	database := &persistence.Database{DB: db}
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	tripRepo := persistence.NewGormTripRepository(db)

	actor := identity.Actor{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Role:           identity.RoleAdmin,
	}

	customer, err := partner.NewCustomer(actor.OrganizationID, "Baltic Freight GmbH")
	require.NoError(t, err)
	require.NoError(t, customerRepo.Save(context.Background(), customer))

	return &billingFixture{
		invoices:   NewInvoiceService(invoiceRepo, paymentRepo, customerRepo, tripRepo, database, zap.NewNop()),
		payments:   NewPaymentService(paymentRepo, invoiceRepo, database, zap.NewNop()),
		customerID: customer.ID,
		actor:      actor,
	}
}

func (f *billingFixture) issueInvoice(t *testing.T, total int64) *InvoiceResponse {
	t.Helper()
	inv, err := f.invoices.Create(context.Background(), f.actor, CreateInvoiceRequest{
		CustomerID: f.customerID,
		Subtotal:   decimal.NewFromInt(total),
		IssueDate:  time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = f.invoices.MarkSent(context.Background(), f.actor, inv.ID)
	require.NoError(t, err)
	return inv
}

func assertBillingCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

type recordingNotifier struct {
	notices []ReminderNotice
	err     error
}

func (n *recordingNotifier) SendReminder(_ context.Context, notice ReminderNotice) error {
	if n.err != nil {
		return n.err
	}
	n.notices = append(n.notices, notice)
	return nil
}

func TestInvoiceService_Create(t *testing.T) {
	f := setupBillingServices(t)
	ctx := context.Background()

	t.Run("issues sequential numbers within a year", func(t *testing.T) {
		first, err := f.invoices.Create(ctx, f.actor, CreateInvoiceRequest{
			CustomerID: f.customerID,
			Subtotal:   decimal.NewFromInt(1000),
			TaxAmount:  decimal.NewFromInt(80),
			IssueDate:  time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-0001", first.InvoiceNumber)
		assert.Equal(t, "draft", first.Status)
		assert.True(t, first.Total.Equal(decimal.NewFromInt(1080)))
		assert.True(t, first.Balance.Equal(first.Total))

		second, err := f.invoices.Create(ctx, f.actor, CreateInvoiceRequest{
			CustomerID: f.customerID,
			Subtotal:   decimal.NewFromInt(500),
			IssueDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-0002", second.InvoiceNumber)
	})

	t.Run("rejects an unknown customer", func(t *testing.T) {
		_, err := f.invoices.Create(ctx, f.actor, CreateInvoiceRequest{
			CustomerID: uuid.New(),
			Subtotal:   decimal.NewFromInt(100),
			IssueDate:  time.Now(),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("staff cannot issue invoices", func(t *testing.T) {
		staff := f.actor
		staff.Role = identity.RoleStaff
		_, err := f.invoices.Create(ctx, staff, CreateInvoiceRequest{
			CustomerID: f.customerID,
			Subtotal:   decimal.NewFromInt(100),
			IssueDate:  time.Now(),
		})
		assertBillingCode(t, err, "FORBIDDEN")
	})
}

func TestInvoiceService_CancelAndDelete(t *testing.T) {
	f := setupBillingServices(t)
	ctx := context.Background()

	t.Run("cancels an unpaid invoice", func(t *testing.T) {
		inv := f.issueInvoice(t, 800)
		cancelled, err := f.invoices.Cancel(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
	})

	t.Run("payments block cancellation and deletion", func(t *testing.T) {
		inv := f.issueInvoice(t, 800)
		_, err := f.payments.Create(ctx, f.actor, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(300),
			PaymentDate: time.Now(),
			Method:      "bank_transfer",
		})
		require.NoError(t, err)

		_, err = f.invoices.Cancel(ctx, f.actor, inv.ID)
		assertBillingCode(t, err, "INVALID_STATE")

		err = f.invoices.Delete(ctx, f.actor, inv.ID)
		assertBillingCode(t, err, "HAS_DEPENDENTS")
	})

	t.Run("deletes an invoice without payments", func(t *testing.T) {
		inv := f.issueInvoice(t, 200)
		require.NoError(t, f.invoices.Delete(ctx, f.actor, inv.ID))

		_, err := f.invoices.GetByID(ctx, f.actor, inv.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceService_SendReminder(t *testing.T) {
	f := setupBillingServices(t)
	ctx := context.Background()

	t.Run("delivers a notice and stamps the invoice", func(t *testing.T) {
		notifier := &recordingNotifier{}
		f.invoices.SetReminderNotifier(notifier)

		inv := f.issueInvoice(t, 900)
		reminded, err := f.invoices.SendReminder(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, reminded.ReminderSentAt)

		require.Len(t, notifier.notices, 1)
		assert.Equal(t, inv.InvoiceNumber, notifier.notices[0].InvoiceNumber)
	})

	t.Run("paid invoices need no reminder", func(t *testing.T) {
		f.invoices.SetReminderNotifier(&recordingNotifier{})
		inv := f.issueInvoice(t, 100)
		_, err := f.payments.Create(ctx, f.actor, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(100),
			PaymentDate: time.Now(),
			Method:      "cash",
		})
		require.NoError(t, err)

		_, err = f.invoices.SendReminder(ctx, f.actor, inv.ID)
		assertBillingCode(t, err, "INVALID_STATE")
	})

	t.Run("a failing notifier surfaces as REMINDER_FAILED", func(t *testing.T) {
		f.invoices.SetReminderNotifier(&recordingNotifier{err: errors.New("agent unreachable")})

		inv := f.issueInvoice(t, 400)
		_, err := f.invoices.SendReminder(ctx, f.actor, inv.ID)
		assertBillingCode(t, err, "REMINDER_FAILED")
	})
}

func TestInvoiceService_Update(t *testing.T) {
	f := setupBillingServices(t)
	ctx := context.Background()

	t.Run("changing one amount keeps the other", func(t *testing.T) {
		inv := f.issueInvoice(t, 1000)
		tax := decimal.NewFromInt(230)

		updated, err := f.invoices.Update(ctx, f.actor, inv.ID, UpdateInvoiceRequest{
			TaxAmount: &tax,
		})
		require.NoError(t, err)
		assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, updated.Total.Equal(decimal.NewFromInt(1230)))
		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(1230)))
	})
}
