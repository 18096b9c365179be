package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/backend/internal/domain/identity"
)

func TestPaymentService_Create(t *testing.T) {
	f := setupBillingServices(t)
	ctx := context.Background()

	t.Run("a partial payment moves the invoice to partial", func(t *testing.T) {
		inv := f.issueInvoice(t, 1000)

		payment, err := f.payments.Create(ctx, f.actor, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(400),
			PaymentDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			Method:      "bank_transfer",
			Reference:   "TRN-0042",
		})
		require.NoError(t, err)
		assert.Equal(t, inv.ID, payment.InvoiceID)
		assert.Equal(t, "TRN-0042", payment.Reference)

		stored, err := f.invoices.GetByID(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "partial", stored.Status)
		assert.True(t, stored.Balance.Equal(decimal.NewFromInt(600)))
	})

	t.Run("paying the full balance settles the invoice", func(t *testing.T) {
		inv := f.issueInvoice(t, 500)

		_, err := f.payments.Create(ctx, f.actor, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(500),
			PaymentDate: time.Now(),
			Method:      "cash",
		})
		require.NoError(t, err)

		stored, err := f.invoices.GetByID(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "paid", stored.Status)
		assert.True(t, stored.Balance.IsZero())
	})

	t.Run("overpayment is rejected and nothing is persisted", func(t *testing.T) {
		inv := f.issueInvoice(t, 300)

		_, err := f.payments.Create(ctx, f.actor, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(301),
			PaymentDate: time.Now(),
			Method:      "cash",
		})
		assertBillingCode(t, err, "AMOUNT_EXCEEDS_BALANCE")

		payments, err := f.payments.ListByInvoice(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		assert.Empty(t, payments)
	})

	t.Run("staff cannot record payments", func(t *testing.T) {
		inv := f.issueInvoice(t, 300)
		staff := f.actor
		staff.Role = identity.RoleStaff

		_, err := f.payments.Create(ctx, staff, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(100),
			PaymentDate: time.Now(),
			Method:      "cash",
		})
		assertBillingCode(t, err, "FORBIDDEN")
	})
}

func TestPaymentService_Update(t *testing.T) {
	f := setupBillingServices(t)
	ctx := context.Background()

	record := func(t *testing.T, inv *InvoiceResponse, amount int64) *PaymentResponse {
		t.Helper()
		p, err := f.payments.Create(ctx, f.actor, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(amount),
			PaymentDate: time.Now(),
			Method:      "bank_transfer",
		})
		require.NoError(t, err)
		return p
	}

	t.Run("raising the amount shrinks the invoice balance", func(t *testing.T) {
		inv := f.issueInvoice(t, 1000)
		payment := record(t, inv, 200)

		newAmount := decimal.NewFromInt(350)
		updated, err := f.payments.Update(ctx, f.actor, payment.ID, UpdatePaymentRequest{
			Amount: &newAmount,
		})
		require.NoError(t, err)
		assert.True(t, updated.Amount.Equal(newAmount))

		stored, err := f.invoices.GetByID(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		assert.True(t, stored.Balance.Equal(decimal.NewFromInt(650)))
	})

	t.Run("the adjusted amount cannot exceed the invoice total", func(t *testing.T) {
		inv := f.issueInvoice(t, 400)
		payment := record(t, inv, 100)

		newAmount := decimal.NewFromInt(500)
		_, err := f.payments.Update(ctx, f.actor, payment.ID, UpdatePaymentRequest{
			Amount: &newAmount,
		})
		assertBillingCode(t, err, "AMOUNT_EXCEEDS_BALANCE")
	})

	t.Run("editing metadata leaves the invoice untouched", func(t *testing.T) {
		inv := f.issueInvoice(t, 400)
		payment := record(t, inv, 150)

		reference := "TRN-0099"
		updated, err := f.payments.Update(ctx, f.actor, payment.ID, UpdatePaymentRequest{
			Reference: &reference,
		})
		require.NoError(t, err)
		assert.Equal(t, reference, updated.Reference)

		stored, err := f.invoices.GetByID(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		assert.True(t, stored.Balance.Equal(decimal.NewFromInt(250)))
	})
}

func TestPaymentService_Delete(t *testing.T) {
	f := setupBillingServices(t)
	ctx := context.Background()

	t.Run("deleting a payment restores the balance", func(t *testing.T) {
		inv := f.issueInvoice(t, 600)
		payment, err := f.payments.Create(ctx, f.actor, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(600),
			PaymentDate: time.Now(),
			Method:      "card",
		})
		require.NoError(t, err)

		stored, err := f.invoices.GetByID(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		require.Equal(t, "paid", stored.Status)

		require.NoError(t, f.payments.Delete(ctx, f.actor, payment.ID))

		stored, err = f.invoices.GetByID(ctx, f.actor, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "sent", stored.Status)
		assert.True(t, stored.Balance.Equal(decimal.NewFromInt(600)))
	})

	t.Run("only administrators may delete payments", func(t *testing.T) {
		inv := f.issueInvoice(t, 600)
		payment, err := f.payments.Create(ctx, f.actor, CreatePaymentRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(100),
			PaymentDate: time.Now(),
			Method:      "cash",
		})
		require.NoError(t, err)

		supervisor := f.actor
		supervisor.Role = identity.RoleSupervisor
		err = f.payments.Delete(ctx, supervisor, payment.ID)
		assertBillingCode(t, err, "FORBIDDEN")
	})
}
