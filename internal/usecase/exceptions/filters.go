package exceptions

import (
	"context"
	"fmt"
	"log/slog"

	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
)

// ApplyFilters makes filter the active filter and recomputes visibility for
// every record. The collection is not touched.
func (s *Service) ApplyFilters(ctx context.Context, filter exception.Filter) (map[uint64]bool, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if filter.IssueType != "" && !s.Catalog().HasIssueType(filter.IssueType) {
		return nil, fmt.Errorf("%w: %q", exception.ErrInvalidIssue, filter.IssueType)
	}
	if filter.Status != "" && filter.Status != exception.StatusOpen && filter.Status != exception.StatusResolved {
		return nil, fmt.Errorf("%w: %q", exception.ErrInvalidStatus, filter.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storeFilter(ctx, filter); err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list exceptions")
	}
	s.emit(exception.VisibilityChanges(records, filter))

	logging.Debug(
		serviceLogContext(ctx),
		"filters applied",
		slog.String("issue_type", string(filter.IssueType)),
		slog.String("status", string(filter.Status)),
	)
	return exception.Visibility(records, filter), nil
}

// ApplyFilterSelectors parses selector strings against the catalog, then applies them.
func (s *Service) ApplyFilterSelectors(ctx context.Context, issueType string, status string) (map[uint64]bool, error) {
	filter, err := s.Catalog().ParseFilter(issueType, status)
	if err != nil {
		return nil, err
	}
	return s.ApplyFilters(ctx, filter)
}

func (s *Service) ActiveFilter(ctx context.Context) (exception.Filter, error) {
	if err := s.check(ctx); err != nil {
		return exception.Filter{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeFilter(ctx)
}

// activeFilter must be called with s.mu held. Without a cache the filter lives on the service.
func (s *Service) activeFilter(ctx context.Context) (exception.Filter, error) {
	if s.cache == nil {
		return s.filter, nil
	}

	issueType, _, err := s.cache.Get(ctx, cacheFilterIssueTypeKey)
	if err != nil {
		return exception.Filter{}, errs.Wrap(err, "read issue type filter")
	}
	status, _, err := s.cache.Get(ctx, cacheFilterStatusKey)
	if err != nil {
		return exception.Filter{}, errs.Wrap(err, "read status filter")
	}
	return exception.Filter{
		IssueType: exception.IssueType(issueType),
		Status:    exception.Status(status),
	}, nil
}

func (s *Service) storeFilter(ctx context.Context, filter exception.Filter) error {
	if s.cache == nil {
		s.filter = filter
		return nil
	}

	entries := []struct {
		key   string
		value string
	}{
		{key: cacheFilterIssueTypeKey, value: string(filter.IssueType)},
		{key: cacheFilterStatusKey, value: string(filter.Status)},
	}
	for _, entry := range entries {
		var err error
		if entry.value == "" {
			err = s.cache.Delete(ctx, entry.key)
		} else {
			err = s.cache.Set(ctx, entry.key, entry.value, 0)
		}
		if err != nil {
			return errs.Wrapf(err, "store filter %s", entry.key)
		}
	}
	return nil
}
