package ports

import (
	"context"
	"errors"

	"deliverydesk/internal/domain/exception"
)

var ErrExceptionNotFound = errors.New("exception record not found")

// ExceptionRepository owns the ordered collection and its id counter.
// Ids are assigned by Create, strictly increase, and are never reused.
type ExceptionRepository interface {
	List(ctx context.Context) ([]exception.Record, error)
	Get(ctx context.Context, id uint64) (exception.Record, error)
	Create(ctx context.Context, record exception.Record) (exception.Record, error)
	UpdateStatus(ctx context.Context, id uint64, status exception.Status) error
	Delete(ctx context.Context, id uint64) error
}
