package exception

import (
	"fmt"
	"strings"
)

var defaultIssueTypes = []IssueType{
	"Damaged",
	"Lost",
	"Delayed",
	"Wrong Address",
	"Missing Items",
	"Other",
}

// Catalog holds the choices the form offers.
type Catalog struct {
	IssueTypes []IssueType
	Priorities []Priority
}

func DefaultCatalog() Catalog {
	issueTypes := make([]IssueType, len(defaultIssueTypes))
	copy(issueTypes, defaultIssueTypes)
	return Catalog{IssueTypes: issueTypes, Priorities: Priorities()}
}

// NewCatalog builds a catalog from issue type names, trimming and de-duplicating them.
func NewCatalog(issueTypes []string) (Catalog, error) {
	seen := make(map[string]struct{}, len(issueTypes))
	out := make([]IssueType, 0, len(issueTypes))
	for _, raw := range issueTypes {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, IssueType(name))
	}
	if len(out) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}
	return Catalog{IssueTypes: out, Priorities: Priorities()}, nil
}

// ParseIssueType returns the catalog spelling of value; "" means no issue type.
func (c Catalog) ParseIssueType(value string) (IssueType, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	for _, it := range c.IssueTypes {
		if strings.EqualFold(trimmed, string(it)) {
			return it, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIssue, value)
}

func (c Catalog) HasIssueType(value IssueType) bool {
	for _, it := range c.IssueTypes {
		if it == value {
			return true
		}
	}
	return false
}

// ParseFilter resolves selector strings against the catalog.
func (c Catalog) ParseFilter(issueType string, status string) (Filter, error) {
	it, err := c.ParseIssueType(issueType)
	if err != nil {
		return Filter{}, err
	}
	st, err := ParseStatus(status)
	if err != nil {
		return Filter{}, err
	}
	return Filter{IssueType: it, Status: st}, nil
}
