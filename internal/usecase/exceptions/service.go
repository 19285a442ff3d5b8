package exceptions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/ports"
)

const (
	cacheFilterIssueTypeKey = "filter:issue_type"
	cacheFilterStatusKey    = "filter:status"
)

// DeletePrompt is the question put to the Confirmer before a delete.
const DeletePrompt = "Are you sure you want to delete this exception?"

type DeleteOutcome int

const (
	DeleteDeclined DeleteOutcome = iota
	DeleteNotFound
	DeleteDone
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteDone:
		return "deleted"
	case DeleteNotFound:
		return "not_found"
	default:
		return "declined"
	}
}

type subscriber struct {
	id   int
	view ports.View
}

// Service owns the exception collection and keeps every subscribed view in
// step with it. Operations are serialized: each runs to completion before the
// next starts, and its view changes are delivered before it returns.
type Service struct {
	mu       sync.Mutex
	repo     ports.ExceptionRepository
	uow      ports.UnitOfWork
	cache    ports.Cache
	catalog  atomic.Pointer[exception.Catalog]
	validate *validator.Validate
	filter   exception.Filter

	views      []subscriber
	nextViewID int
}

// NewService wires the store, its transaction boundary, and the view-state cache.
func NewService(repo ports.ExceptionRepository, uow ports.UnitOfWork, cache ports.Cache, catalog exception.Catalog) *Service {
	s := &Service{
		repo:     repo,
		uow:      uow,
		cache:    cache,
		validate: newValidator(),
	}
	s.SetCatalog(catalog)
	return s
}

func (s *Service) Catalog() exception.Catalog {
	return *s.catalog.Load()
}

// SetCatalog swaps the choices offered for new records and filters.
// Existing records keep the issue type they were created with.
func (s *Service) SetCatalog(catalog exception.Catalog) {
	if len(catalog.IssueTypes) == 0 {
		catalog = exception.DefaultCatalog()
	}
	if len(catalog.Priorities) == 0 {
		catalog.Priorities = exception.Priorities()
	}
	s.catalog.Store(&catalog)
}

// Subscribe registers view and replays the current collection into it.
// The returned func detaches the view.
func (s *Service) Subscribe(ctx context.Context, view ports.View) (func(), error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if view == nil {
		return nil, errors.New("view is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list exceptions")
	}
	filter, err := s.activeFilter(ctx)
	if err != nil {
		return nil, err
	}

	changes := make([]exception.Change, 0, len(records)*2+1)
	for _, r := range records {
		changes = append(changes, exception.RowAppended(r))
	}
	changes = append(changes, exception.VisibilityChanges(records, filter)...)
	changes = append(changes, exception.StatsChanged(exception.ComputeStats(records)))
	view.Apply(changes)

	id := s.nextViewID
	s.nextViewID++
	s.views = append(s.views, subscriber{id: id, view: view})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.views {
			if sub.id == id {
				s.views = append(s.views[:i], s.views[i+1:]...)
				return
			}
		}
	}, nil
}

func (s *Service) List(ctx context.Context) ([]exception.Record, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list exceptions")
	}
	return records, nil
}

// Get returns exception.ErrNotFound for an unknown id.
func (s *Service) Get(ctx context.Context, id uint64) (exception.Record, error) {
	if err := s.check(ctx); err != nil {
		return exception.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrExceptionNotFound) {
			return exception.Record{}, exception.ErrNotFound
		}
		return exception.Record{}, errs.Wrapf(err, "get exception %d", id)
	}
	return record, nil
}

// ComputeStats counts open and resolved records over the whole collection.
func (s *Service) ComputeStats(ctx context.Context) (exception.Stats, error) {
	if err := s.check(ctx); err != nil {
		return exception.Stats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.List(ctx)
	if err != nil {
		return exception.Stats{}, errs.Wrap(err, "list exceptions")
	}
	return exception.ComputeStats(records), nil
}

func (s *Service) check(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("exception repository is required")
	}
	if s.uow == nil {
		return errors.New("exception unit of work is required")
	}
	return nil
}

// emit must be called with s.mu held.
func (s *Service) emit(changes []exception.Change) {
	if len(changes) == 0 {
		return
	}
	for _, sub := range s.views {
		sub.view.Apply(changes)
	}
}

// snapshotChanges builds the stats change plus, when withVisibility is set,
// a visibility change for every record under the active filter.
func (s *Service) snapshotChanges(ctx context.Context, withVisibility bool) ([]exception.Change, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list exceptions")
	}

	changes := make([]exception.Change, 0, len(records)+1)
	if withVisibility {
		filter, err := s.activeFilter(ctx)
		if err != nil {
			return nil, err
		}
		changes = append(changes, exception.VisibilityChanges(records, filter)...)
	}
	changes = append(changes, exception.StatsChanged(exception.ComputeStats(records)))
	return changes, nil
}

func serviceLogContext(ctx context.Context) context.Context {
	return logging.WithAttrs(ctx, slog.String("component", "exceptions.service"))
}
