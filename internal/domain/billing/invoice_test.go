package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func createTestInvoice(t *testing.T, total float64) *Invoice {
	t.Helper()
	inv, err := NewInvoice(
		uuid.New(),
		"INV-2026-0001",
		uuid.New(),
		decimal.NewFromFloat(total),
		decimal.Zero,
		time.Now(),
		false,
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, inv.MarkSent())
	return inv
}

func assertInvariant(t *testing.T, inv *Invoice) {
	t.Helper()
	assert.True(t, inv.Balance.Equal(inv.Total.Sub(inv.AmountPaid)),
		"balance %s != total %s - amountPaid %s", inv.Balance, inv.Total, inv.AmountPaid)
	if inv.Balance.LessThanOrEqual(decimal.Zero) {
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	} else {
		assert.NotEqual(t, InvoiceStatusPaid, inv.Status)
	}
}

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  InvoiceStatus
		isValid bool
	}{
		{InvoiceStatusDraft, true},
		{InvoiceStatusSent, true},
		{InvoiceStatusPartial, true},
		{InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, true},
		{InvoiceStatusCancelled, true},
		{InvoiceStatus("unknown"), false},
		{InvoiceStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestNewInvoice(t *testing.T) {
	orgID := uuid.New()
	customerID := uuid.New()

	t.Run("creates draft invoice with derived fields", func(t *testing.T) {
		inv, err := NewInvoice(orgID, "INV-2026-0007", customerID,
			decimal.NewFromInt(900), decimal.NewFromInt(100), time.Now(), false, nil)
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(1000)))
		assert.True(t, inv.AmountPaid.IsZero())
		assert.True(t, inv.Balance.Equal(inv.Total))
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewInvoice(orgID, "", customerID,
			decimal.NewFromInt(100), decimal.Zero, time.Now(), false, nil)
		assert.Error(t, err)
	})

	t.Run("rejects zero total", func(t *testing.T) {
		_, err := NewInvoice(orgID, "INV-2026-0008", customerID,
			decimal.Zero, decimal.Zero, time.Now(), false, nil)
		assert.Error(t, err)
	})

	t.Run("credit invoice requires due date", func(t *testing.T) {
		_, err := NewInvoice(orgID, "INV-2026-0009", customerID,
			decimal.NewFromInt(100), decimal.Zero, time.Now(), true, nil)
		assert.Error(t, err)

		due := time.Now().AddDate(0, 1, 0)
		inv, err := NewInvoice(orgID, "INV-2026-0009", customerID,
			decimal.NewFromInt(100), decimal.Zero, time.Now(), true, &due)
		require.NoError(t, err)
		assert.True(t, inv.IsCredit)
	})
}

func TestInvoice_ApplyPayment(t *testing.T) {
	t.Run("partial then full payment", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)

		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(400)))
		assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(400)))
		assert.True(t, inv.Balance.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
		assertInvariant(t, inv)

		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(600)))
		assert.True(t, inv.Balance.IsZero())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assertInvariant(t, inv)
	})

	t.Run("amount exceeding balance fails without mutation", func(t *testing.T) {
		inv := createTestInvoice(t, 500)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(200)))

		err := inv.ApplyPayment(decimal.NewFromInt(400))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")

		assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(200)))
		assert.True(t, inv.Balance.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		inv := createTestInvoice(t, 500)
		assert.Error(t, inv.ApplyPayment(decimal.Zero))
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(-10)))
	})

	t.Run("rejects payments on paid and cancelled invoices", func(t *testing.T) {
		inv := createTestInvoice(t, 100)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(100)))
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(1)))

		cancelled := createTestInvoice(t, 100)
		require.NoError(t, cancelled.Cancel())
		assert.Error(t, cancelled.ApplyPayment(decimal.NewFromInt(1)))
	})

	t.Run("full payment raises InvoicePaid event", func(t *testing.T) {
		inv := createTestInvoice(t, 300)
		inv.ClearDomainEvents()

		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(300)))

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "InvoicePaid", events[0].EventType())
	})
}

func TestInvoice_AdjustPayment(t *testing.T) {
	t.Run("positive delta can complete the invoice", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(400)))

		require.NoError(t, inv.AdjustPayment(decimal.NewFromInt(600)))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assertInvariant(t, inv)
	})

	t.Run("negative delta reverts paid to partial", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(1000)))

		require.NoError(t, inv.AdjustPayment(decimal.NewFromInt(-250)))
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
		assert.True(t, inv.Balance.Equal(decimal.NewFromInt(250)))
		assertInvariant(t, inv)
	})

	t.Run("delta pushing paid above total fails", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(800)))

		err := inv.AdjustPayment(decimal.NewFromInt(300))
		require.Error(t, err)
		assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(800)))
	})

	t.Run("delta pushing paid below zero fails", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(100)))

		assert.Error(t, inv.AdjustPayment(decimal.NewFromInt(-200)))
	})
}

func TestInvoice_ReversePayment(t *testing.T) {
	t.Run("paid reverts to partial while payments remain", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(400)))
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(600)))
		require.Equal(t, InvoiceStatusPaid, inv.Status)

		require.NoError(t, inv.ReversePayment(decimal.NewFromInt(600)))
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
		assert.True(t, inv.Balance.Equal(decimal.NewFromInt(600)))
		assertInvariant(t, inv)
	})

	t.Run("reversing the last payment reverts to sent", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(1000)))

		require.NoError(t, inv.ReversePayment(decimal.NewFromInt(1000)))
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		assert.True(t, inv.AmountPaid.IsZero())
		assertInvariant(t, inv)
	})

	t.Run("cannot reverse more than was paid", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(100)))

		assert.Error(t, inv.ReversePayment(decimal.NewFromInt(200)))
	})
}

func TestInvoice_UpdateAmounts(t *testing.T) {
	t.Run("recomputes balance and status", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(500)))

		require.NoError(t, inv.UpdateAmounts(decimal.NewFromInt(500), decimal.Zero))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assertInvariant(t, inv)
	})

	t.Run("cannot undercut amount already paid", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(500)))

		assert.Error(t, inv.UpdateAmounts(decimal.NewFromInt(400), decimal.Zero))
	})
}

func TestInvoice_Cancel(t *testing.T) {
	t.Run("cancellable from unpaid states", func(t *testing.T) {
		inv := createTestInvoice(t, 1000)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(100)))
		require.NoError(t, inv.Cancel())
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	})

	t.Run("paid invoices cannot be cancelled", func(t *testing.T) {
		inv := createTestInvoice(t, 100)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(100)))
		assert.Error(t, inv.Cancel())
	})
}

func TestInvoice_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	t.Run("past due date with open balance", func(t *testing.T) {
		inv := createTestInvoice(t, 500)
		require.NoError(t, inv.SetDueDate(&past))

		// Status stays whatever it was; overdue is display-only.
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		assert.True(t, inv.IsOverdue(now))
	})

	t.Run("not overdue when paid or cancelled", func(t *testing.T) {
		inv := createTestInvoice(t, 500)
		require.NoError(t, inv.SetDueDate(&past))
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(500)))
		assert.False(t, inv.IsOverdue(now))

		cancelled := createTestInvoice(t, 500)
		require.NoError(t, cancelled.SetDueDate(&past))
		require.NoError(t, cancelled.Cancel())
		assert.False(t, cancelled.IsOverdue(now))
	})

	t.Run("not overdue before due date or without one", func(t *testing.T) {
		inv := createTestInvoice(t, 500)
		require.NoError(t, inv.SetDueDate(&future))
		assert.False(t, inv.IsOverdue(now))

		noDue := createTestInvoice(t, 500)
		assert.False(t, noDue.IsOverdue(now))
	})
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2026-0001", FormatInvoiceNumber(2026, 1))
	assert.Equal(t, "INV-2026-0042", FormatInvoiceNumber(2026, 42))
	assert.Equal(t, "INV-2025-1234", FormatInvoiceNumber(2025, 1234))
}

func TestInvoice_InvariantUnderPaymentSequences(t *testing.T) {
	// Balance == Total - AmountPaid must survive arbitrary sequences of
	// creates, adjustments and reversals.
	inv := createTestInvoice(t, 1000)

	steps := []func() error{
		func() error { return inv.ApplyPayment(decimal.NewFromInt(250)) },
		func() error { return inv.ApplyPayment(decimal.NewFromInt(250)) },
		func() error { return inv.AdjustPayment(decimal.NewFromInt(100)) },
		func() error { return inv.ReversePayment(decimal.NewFromInt(300)) },
		func() error { return inv.ApplyPayment(decimal.NewFromInt(700)) },
		func() error { return inv.ReversePayment(decimal.NewFromInt(1000)) },
	}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assertInvariant(t, inv)
	}

	assert.True(t, inv.AmountPaid.IsZero())
	assert.Equal(t, InvoiceStatusSent, inv.Status)
}
