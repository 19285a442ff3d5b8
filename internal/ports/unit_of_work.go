package ports

import "context"

// Tx is the store-specific handle carried through a unit of work:
// *gorm.DB for the SQLite adapters, a marker for the in-process store.
type Tx any

// UnitOfWork makes one service operation atomic against its store.
// An error from fn discards the operation's writes; nil keeps them.
// Nested calls with a context already inside a unit join it.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func TxFromContext(ctx context.Context) Tx {
	if ctx == nil {
		return nil
	}
	return ctx.Value(txKey{})
}

// TxAs returns the handle in ctx when it has type T.
func TxAs[T any](ctx context.Context) (T, bool) {
	tx, ok := TxFromContext(ctx).(T)
	return tx, ok
}
