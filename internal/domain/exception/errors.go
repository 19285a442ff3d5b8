package exception

import (
	"errors"
	"strings"
)

var (
	ErrValidation      = errors.New("exception validation failed")
	ErrNotFound        = errors.New("exception not found")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidIssue    = errors.New("invalid issue type")
	ErrEmptyCatalog    = errors.New("catalog has no issue types")
)

// RequiredFieldsNotice is the blocking message shown when a create is rejected.
const RequiredFieldsNotice = "Please fill in all required fields."

// ValidationError lists the create fields that were missing or not in the catalog.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Notice is the user-facing text for the form.
func (e *ValidationError) Notice() string {
	if len(e.Missing) == 0 && len(e.Invalid) > 0 {
		return "Please pick " + strings.Join(e.Invalid, ", ") + " from the list."
	}
	return RequiredFieldsNotice
}

func (e *ValidationError) Empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}
