package exceptions

import (
	"context"
	"errors"
	"log/slog"

	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/ports"
)

// Resolve moves an Open record to Resolved and re-applies the active filter.
// An unknown id or an already resolved record is a silent no-op (false, nil).
func (s *Service) Resolve(ctx context.Context, id uint64) (bool, error) {
	if err := s.check(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var changes []exception.Change
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.Get(txCtx, id)
		if err != nil {
			if errors.Is(err, ports.ErrExceptionNotFound) {
				return nil
			}
			return err
		}

		next, ok := exception.Resolve(current)
		if !ok {
			return nil
		}
		if err := s.repo.UpdateStatus(txCtx, id, next.Status); err != nil {
			return err
		}
		tail, err := s.snapshotChanges(txCtx, true)
		if err != nil {
			return err
		}
		changes = append([]exception.Change{exception.RowUpdated(next)}, tail...)
		return nil
	}); err != nil {
		return false, errs.Wrapf(err, "resolve exception %d", id)
	}

	logCtx := logging.WithAttrs(serviceLogContext(ctx), slog.Uint64("exception_id", id))
	if changes == nil {
		logging.Debug(logCtx, "resolve ignored")
		return false, nil
	}
	s.emit(changes)

	logging.Info(logCtx, "exception resolved")
	return true, nil
}
