package memory

import (
	"context"
	"sync"

	"deliverydesk/internal/ports"
)

type txMarker struct{}

// UnitOfWork serializes callbacks and restores the collection when one fails.
type UnitOfWork struct {
	mu   sync.Mutex
	repo *ExceptionRepository
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(repo *ExceptionRepository) *UnitOfWork {
	return &UnitOfWork{repo: repo}
}

func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if _, ok := ports.TxAs[txMarker](ctx); ok {
		return fn(ctx)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.repo == nil {
		return fn(ports.WithTxContext(ctx, txMarker{}))
	}

	saved := u.repo.snapshot()
	if err := fn(ports.WithTxContext(ctx, txMarker{})); err != nil {
		u.repo.restore(saved)
		return err
	}
	return nil
}
