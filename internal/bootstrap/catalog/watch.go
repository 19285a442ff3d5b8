package catalog

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
)

// Watch reloads the catalog at path whenever it changes and passes each
// successfully parsed result to apply. A file that fails to parse is logged
// and the previous catalog stays in effect. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file so that editors which
// save by rename are still seen.
func Watch(ctx context.Context, path string, apply func(exception.Catalog)) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if path == "" {
		return errors.New("catalog path is required")
	}
	if apply == nil {
		return errors.New("apply func is required")
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return errs.Wrap(err, "resolve catalog path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(err, "create catalog watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errs.Wrapf(err, "watch %s", filepath.Dir(target))
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.catalog"), slog.String("path", target))
	logging.Info(logCtx, "watching issue type catalog")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cat, err := Load(ctx, target)
			if err != nil {
				logging.Warn(logCtx, "catalog reload failed, keeping previous", slog.Any("err", errs.Loggable(err)))
				continue
			}
			apply(cat)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn(logCtx, "catalog watcher error", slog.Any("err", errs.Loggable(err)))
		}
	}
}
