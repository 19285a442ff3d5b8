package exceptions

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
)

// CreateInput carries the five form fields as typed by the user.
type CreateInput struct {
	DeliveryID   string `form:"delivery_id" validate:"required"`
	CustomerName string `form:"customer_name" validate:"required"`
	IssueType    string `form:"issue_type" validate:"required"`
	Priority     string `form:"priority" validate:"required"`
	Notes        string `form:"notes"`
}

func (in CreateInput) normalized() CreateInput {
	return CreateInput{
		DeliveryID:   strings.TrimSpace(in.DeliveryID),
		CustomerName: strings.TrimSpace(in.CustomerName),
		IssueType:    strings.TrimSpace(in.IssueType),
		Priority:     strings.TrimSpace(in.Priority),
		Notes:        strings.TrimSpace(in.Notes),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Create validates input and appends a new Open record. A rejected input
// returns *exception.ValidationError and leaves the collection untouched.
func (s *Service) Create(ctx context.Context, input CreateInput) (exception.Record, error) {
	if err := s.check(ctx); err != nil {
		return exception.Record{}, err
	}

	record, err := s.buildRecord(input.normalized())
	if err != nil {
		logging.Info(serviceLogContext(ctx), "exception rejected", slog.String("reason", err.Error()))
		return exception.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filter, err := s.activeFilter(ctx)
	if err != nil {
		return exception.Record{}, err
	}

	// Changes are built before commit so a caller cancelling afterwards
	// cannot leave views behind the store.
	var created exception.Record
	var changes []exception.Change
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, record)
		if err != nil {
			return err
		}
		tail, err := s.snapshotChanges(txCtx, false)
		if err != nil {
			return err
		}
		changes = append([]exception.Change{
			exception.RowAppended(created),
			exception.VisibilityChanged(created.ID, filter.Matches(created)),
		}, tail...)
		return nil
	}); err != nil {
		return exception.Record{}, errs.Wrap(err, "create exception")
	}
	s.emit(changes)

	logging.Info(
		serviceLogContext(ctx),
		"exception created",
		slog.Uint64("exception_id", created.ID),
		slog.String("delivery_id", created.DeliveryID),
		slog.String("issue_type", string(created.IssueType)),
		slog.String("priority", string(created.Priority)),
	)
	return created, nil
}

func (s *Service) buildRecord(in CreateInput) (exception.Record, error) {
	verr := &exception.ValidationError{}

	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return exception.Record{}, errs.Wrap(err, "validate exception input")
		}
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				verr.Missing = append(verr.Missing, fe.Field())
			} else {
				verr.Invalid = append(verr.Invalid, fe.Field())
			}
		}
	}

	var issueType exception.IssueType
	if in.IssueType != "" {
		parsed, err := s.Catalog().ParseIssueType(in.IssueType)
		if err != nil {
			verr.Invalid = append(verr.Invalid, "issue_type")
		}
		issueType = parsed
	}

	var priority exception.Priority
	if in.Priority != "" {
		parsed, err := exception.ParsePriority(in.Priority)
		if err != nil {
			verr.Invalid = append(verr.Invalid, "priority")
		}
		priority = parsed
	}

	if !verr.Empty() {
		return exception.Record{}, verr
	}

	return exception.Record{
		DeliveryID:   in.DeliveryID,
		CustomerName: in.CustomerName,
		IssueType:    issueType,
		Priority:     priority,
		Status:       exception.StatusOpen,
		Notes:        in.Notes,
	}, nil
}
