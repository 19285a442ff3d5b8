// Package memory keeps the exception collection in process memory. It is the
// default store: the data lives exactly as long as the process.
package memory

import (
	"context"
	"errors"
	"sync"

	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/ports"
)

type ExceptionRepository struct {
	mu      sync.RWMutex
	records []exception.Record
	nextID  uint64
}

var _ ports.ExceptionRepository = (*ExceptionRepository)(nil)

func NewExceptionRepository() *ExceptionRepository {
	return &ExceptionRepository{}
}

func (r *ExceptionRepository) List(ctx context.Context) ([]exception.Record, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exception.Record, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *ExceptionRepository) Get(ctx context.Context, id uint64) (exception.Record, error) {
	if err := checkContext(ctx); err != nil {
		return exception.Record{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return exception.Record{}, ports.ErrExceptionNotFound
	}
	return r.records[idx], nil
}

func (r *ExceptionRepository) Create(ctx context.Context, record exception.Record) (exception.Record, error) {
	if err := checkContext(ctx); err != nil {
		return exception.Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	r.records = append(r.records, record)
	return record, nil
}

func (r *ExceptionRepository) UpdateStatus(ctx context.Context, id uint64, status exception.Status) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return ports.ErrExceptionNotFound
	}
	r.records[idx].Status = status
	return nil
}

func (r *ExceptionRepository) Delete(ctx context.Context, id uint64) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return ports.ErrExceptionNotFound
	}
	r.records = append(r.records[:idx], r.records[idx+1:]...)
	return nil
}

func (r *ExceptionRepository) snapshot() []exception.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exception.Record, len(r.records))
	copy(out, r.records)
	return out
}

// restore replaces the collection but keeps the counter, so rolled-back ids stay burned.
func (r *ExceptionRepository) restore(records []exception.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = records
}

// indexOf relies on records being sorted by id, which Create guarantees.
func (r *ExceptionRepository) indexOf(id uint64) int {
	lo, hi := 0, len(r.records)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case r.records[mid].ID == id:
			return mid
		case r.records[mid].ID < id:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return -1
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	return nil
}
