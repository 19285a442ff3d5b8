// Package catalog loads the issue types offered by the exception form.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
)

type file struct {
	IssueTypes []string `toml:"issue_types" yaml:"issue_types"`
}

// Load reads a catalog file such as
//
//	issue_types = ["Damaged", "Lost", "Delayed"]
//
// Files ending in .yaml or .yml are read as YAML, anything else as TOML.
// An empty path yields the default catalog.
func Load(ctx context.Context, path string) (exception.Catalog, error) {
	if ctx == nil {
		return exception.Catalog{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return exception.Catalog{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.catalog"))
	if path == "" {
		logging.Info(logCtx, "using default issue type catalog")
		return exception.DefaultCatalog(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return exception.Catalog{}, errs.Wrapf(err, "read catalog %s", path)
	}

	return Parse(logCtx, path, raw)
}

// Parse decodes raw using the format implied by name's extension.
func Parse(ctx context.Context, name string, raw []byte) (exception.Catalog, error) {
	var doc file
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return exception.Catalog{}, errs.Wrap(err, "decode catalog yaml")
		}
	default:
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return exception.Catalog{}, errs.Wrap(err, "decode catalog toml")
		}
	}

	cat, err := exception.NewCatalog(doc.IssueTypes)
	if err != nil {
		return exception.Catalog{}, err
	}

	logging.Info(ctx, "issue type catalog loaded", slog.String("source", name), slog.Int("issue_types", len(cat.IssueTypes)))
	return cat, nil
}
