package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/shared"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func newTestInvoice(t *testing.T, orgID uuid.UUID, number string) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(orgID, number, uuid.New(),
		decimal.NewFromInt(1000), decimal.NewFromInt(80),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), false, nil)
	require.NoError(t, err)
	return inv
}

func TestInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("round trips an invoice", func(t *testing.T) {
		inv := newTestInvoice(t, orgID, "INV-2026-0001")
		require.NoError(t, repo.Save(ctx, inv))

		found, err := repo.FindByIDForOrg(ctx, orgID, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-0001", found.InvoiceNumber)
		assert.True(t, found.Subtotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, found.Total.Equal(decimal.NewFromInt(1080)))
		assert.Equal(t, billing.InvoiceStatusDraft, found.Status)
	})

	t.Run("finds by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, orgID, "INV-2026-0001")
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-0001", found.InvoiceNumber)
	})

	t.Run("does not leak across organizations", func(t *testing.T) {
		inv := newTestInvoice(t, orgID, "INV-2026-0002")
		require.NoError(t, repo.Save(ctx, inv))

		_, err := repo.FindByIDForOrg(ctx, uuid.New(), inv.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete reports missing rows", func(t *testing.T) {
		err := repo.DeleteForOrg(ctx, orgID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceRepository_NextSequence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("starts at one for an empty year", func(t *testing.T) {
		seq, err := repo.NextSequence(ctx, orgID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
	})

	t.Run("continues after the highest existing number", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newTestInvoice(t, orgID, billing.FormatInvoiceNumber(2026, 7))))
		require.NoError(t, repo.Save(ctx, newTestInvoice(t, orgID, billing.FormatInvoiceNumber(2026, 3))))

		seq, err := repo.NextSequence(ctx, orgID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 8, seq)
	})

	t.Run("sequences are per year", func(t *testing.T) {
		seq, err := repo.NextSequence(ctx, orgID, 2027)
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
	})

	t.Run("sequences are per organization", func(t *testing.T) {
		seq, err := repo.NextSequence(ctx, uuid.New(), 2026)
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
	})

	t.Run("duplicate numbers hit the unique index", func(t *testing.T) {
		inv := newTestInvoice(t, orgID, billing.FormatInvoiceNumber(2026, 7))
		err := db.WithContext(ctx).Exec(
			"INSERT INTO invoices (id, organization_id, invoice_number, customer_id, subtotal, tax_amount, total, amount_paid, balance, status, issue_date, is_credit, version, created_at, updated_at) VALUES (?, ?, ?, ?, 0, 0, 0, 0, 0, 'draft', ?, 0, 1, ?, ?)",
			inv.ID, orgID, inv.InvoiceNumber, inv.CustomerID, inv.IssueDate, time.Now(), time.Now(),
		).Error
		assert.Error(t, err)
	})
}

func TestInvoiceRepository_Filtering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	customerID := uuid.New()
	inv1, err := billing.NewInvoice(orgID, "INV-2026-0001", customerID,
		decimal.NewFromInt(500), decimal.Zero,
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), false, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv1))

	inv2 := newTestInvoice(t, orgID, "INV-2026-0002")
	require.NoError(t, inv2.MarkSent())
	require.NoError(t, repo.Save(ctx, inv2))

	t.Run("filters by status", func(t *testing.T) {
		status := billing.InvoiceStatusSent
		results, total, err := repo.FindAllForOrg(ctx, orgID, billing.InvoiceFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, results, 1)
		assert.Equal(t, "INV-2026-0002", results[0].InvoiceNumber)
	})

	t.Run("filters by customer", func(t *testing.T) {
		results, total, err := repo.FindAllForOrg(ctx, orgID, billing.InvoiceFilter{CustomerID: &customerID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, results, 1)
		assert.Equal(t, inv1.ID, results[0].ID)
	})

	t.Run("paginates with a total count", func(t *testing.T) {
		results, total, err := repo.FindAllForOrg(ctx, orgID, billing.InvoiceFilter{
			Filter: shared.Filter{Page: 1, PageSize: 1, OrderBy: "issue_date", OrderDir: "asc"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, results, 1)
		assert.Equal(t, inv1.ID, results[0].ID)
	})

	t.Run("rejects sort fields outside the whitelist", func(t *testing.T) {
		results, _, err := repo.FindAllForOrg(ctx, orgID, billing.InvoiceFilter{
			Filter: shared.Filter{OrderBy: "total; DROP TABLE invoices"},
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestPaymentRepository(t *testing.T) {
	db := setupTestDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	inv := newTestInvoice(t, orgID, "INV-2026-0001")
	require.NoError(t, invoiceRepo.Save(ctx, inv))

	newPayment := func(t *testing.T, amount int64, day int) *billing.Payment {
		t.Helper()
		p, err := billing.NewPayment(orgID, inv.ID, inv.CustomerID,
			decimal.NewFromInt(amount),
			time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			billing.PaymentMethodBankTransfer, "")
		require.NoError(t, err)
		return p
	}

	t.Run("round trips a payment", func(t *testing.T) {
		p := newPayment(t, 300, 12)
		require.NoError(t, repo.Save(ctx, p))

		found, err := repo.FindByIDForOrg(ctx, orgID, p.ID)
		require.NoError(t, err)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, billing.PaymentMethodBankTransfer, found.Method)
		assert.Equal(t, inv.ID, found.InvoiceID)
	})

	t.Run("lists payments for an invoice in date order", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newPayment(t, 200, 5)))

		payments, err := repo.FindByInvoice(ctx, orgID, inv.ID)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.True(t, payments[0].PaymentDate.Before(payments[1].PaymentDate))
	})

	t.Run("counts payments for the deletion guard", func(t *testing.T) {
		count, err := repo.CountByInvoice(ctx, orgID, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.CountByInvoice(ctx, orgID, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestExpenseRepositories(t *testing.T) {
	db := setupTestDB(t)
	categoryRepo := NewGormExpenseCategoryRepository(db)
	expenseRepo := NewGormExpenseRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	category, err := billing.NewExpenseCategory(orgID, "Fuel", "Diesel and petrol")
	require.NoError(t, err)
	require.NoError(t, categoryRepo.Save(ctx, category))

	t.Run("finds category by name", func(t *testing.T) {
		found, err := categoryRepo.FindByName(ctx, orgID, "Fuel")
		require.NoError(t, err)
		assert.Equal(t, category.ID, found.ID)

		_, err = categoryRepo.FindByName(ctx, orgID, "Tolls")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("category names are unique per organization", func(t *testing.T) {
		dup, err := billing.NewExpenseCategory(orgID, "Fuel", "")
		require.NoError(t, err)
		assert.Error(t, categoryRepo.Save(ctx, dup))

		other, err := billing.NewExpenseCategory(uuid.New(), "Fuel", "")
		require.NoError(t, err)
		assert.NoError(t, categoryRepo.Save(ctx, other))
	})

	t.Run("counts expenses in a category", func(t *testing.T) {
		expense, err := billing.NewExpense(orgID, category.ID, decimal.NewFromInt(150),
			time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), "Diesel top up")
		require.NoError(t, err)
		tripID := uuid.New()
		expense.LinkTrip(tripID)
		require.NoError(t, expenseRepo.Save(ctx, expense))

		count, err := categoryRepo.CountExpenses(ctx, orgID, category.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = expenseRepo.CountByTrip(ctx, orgID, tripID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("filters expenses by category", func(t *testing.T) {
		results, total, err := expenseRepo.FindAllForOrg(ctx, orgID, billing.ExpenseFilter{CategoryID: &category.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, results, 1)
	})
}
