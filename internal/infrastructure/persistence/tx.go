package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/shared"
)

type txContextKey struct{}

// WithinTransaction runs fn inside a database transaction. The
// transaction handle travels in the context, so repositories called
// with that context join it transparently.
func (d *Database) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the outer transaction
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx
}

// conn returns the transaction handle from the context when present,
// otherwise the given base connection
func conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}

var _ shared.TransactionManager = (*Database)(nil)
