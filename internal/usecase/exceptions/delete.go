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

// Delete removes a record after confirm agrees. A nil confirmer counts as a
// refusal. Declined and unknown ids are silent no-ops reported via the outcome.
func (s *Service) Delete(ctx context.Context, id uint64, confirm ports.Confirmer) (DeleteOutcome, error) {
	if err := s.check(ctx); err != nil {
		return DeleteDeclined, err
	}

	logCtx := logging.WithAttrs(serviceLogContext(ctx), slog.Uint64("exception_id", id))

	// Asked before taking the lock: the answer may come from a person.
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		logging.Debug(logCtx, "delete declined")
		return DeleteDeclined, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var changes []exception.Change
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		tail, err := s.snapshotChanges(txCtx, false)
		if err != nil {
			return err
		}
		changes = append([]exception.Change{exception.RowRemoved(id)}, tail...)
		return nil
	}); err != nil {
		if errors.Is(err, ports.ErrExceptionNotFound) {
			logging.Debug(logCtx, "delete ignored, exception not found")
			return DeleteNotFound, nil
		}
		return DeleteDeclined, errs.Wrapf(err, "delete exception %d", id)
	}

	s.emit(changes)

	logging.Info(logCtx, "exception deleted")
	return DeleteDone, nil
}
