package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	orgID := uuid.New()
	invoiceID := uuid.New()
	customerID := uuid.New()

	t.Run("creates payment", func(t *testing.T) {
		p, err := NewPayment(orgID, invoiceID, customerID,
			decimal.NewFromInt(250), time.Now(), PaymentMethodBankTransfer, "")
		require.NoError(t, err)

		assert.Equal(t, invoiceID, p.InvoiceID)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(250)))
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment(orgID, invoiceID, customerID,
			decimal.Zero, time.Now(), PaymentMethodCash, "")
		assert.Error(t, err)
	})

	t.Run("rejects invalid method", func(t *testing.T) {
		_, err := NewPayment(orgID, invoiceID, customerID,
			decimal.NewFromInt(10), time.Now(), PaymentMethod("bitcoin"), "")
		assert.Error(t, err)
	})

	t.Run("method other requires a label", func(t *testing.T) {
		_, err := NewPayment(orgID, invoiceID, customerID,
			decimal.NewFromInt(10), time.Now(), PaymentMethodOther, "")
		assert.Error(t, err)

		p, err := NewPayment(orgID, invoiceID, customerID,
			decimal.NewFromInt(10), time.Now(), PaymentMethodOther, "barter")
		require.NoError(t, err)
		assert.Equal(t, "barter", p.MethodLabel)
	})
}

func TestPayment_ChangeAmount(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(100), time.Now(), PaymentMethodCash, "")
	require.NoError(t, err)

	delta, err := p.ChangeAmount(decimal.NewFromInt(160))
	require.NoError(t, err)
	assert.True(t, delta.Equal(decimal.NewFromInt(60)))
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(160)))

	delta, err = p.ChangeAmount(decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, delta.Equal(decimal.NewFromInt(-120)))

	_, err = p.ChangeAmount(decimal.Zero)
	assert.Error(t, err)
}

func TestExpenseCategory(t *testing.T) {
	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewExpenseCategory(uuid.New(), "  ", "")
		assert.Error(t, err)
	})

	t.Run("rename trims", func(t *testing.T) {
		c, err := NewExpenseCategory(uuid.New(), "Fuel", "diesel and petrol")
		require.NoError(t, err)
		require.NoError(t, c.Rename("  Tolls "))
		assert.Equal(t, "Tolls", c.Name)
	})
}

func TestNewExpense(t *testing.T) {
	orgID := uuid.New()
	categoryID := uuid.New()

	t.Run("creates expense with optional trip link", func(t *testing.T) {
		e, err := NewExpense(orgID, categoryID,
			decimal.NewFromFloat(89.50), time.Now(), "diesel refill")
		require.NoError(t, err)
		assert.Nil(t, e.TripID)

		tripID := uuid.New()
		e.LinkTrip(tripID)
		require.NotNil(t, e.TripID)
		assert.Equal(t, tripID, *e.TripID)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewExpense(orgID, categoryID,
			decimal.Zero, time.Now(), "nothing")
		assert.Error(t, err)
	})
}
