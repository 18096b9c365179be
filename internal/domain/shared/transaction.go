package shared

import "context"

// TransactionManager runs a function inside a storage transaction.
// Repository calls made with the context passed to fn join the
// transaction; the transaction commits when fn returns nil and rolls
// back when it returns an error.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
