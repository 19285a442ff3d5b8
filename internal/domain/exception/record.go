package exception

import (
	"fmt"
	"strings"
)

type IssueType string

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Priorities returns the fixed urgency tiers in form order.
func Priorities() []Priority {
	out := make([]Priority, len(priorities))
	copy(out, priorities)
	return out
}

func ParsePriority(value string) (Priority, error) {
	trimmed := strings.TrimSpace(value)
	for _, p := range priorities {
		if strings.EqualFold(trimmed, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, value)
}

type Status string

const (
	StatusOpen     Status = "Open"
	StatusResolved Status = "Resolved"
)

// ParseStatus accepts the status name in any case; "" means no status.
func ParseStatus(value string) (Status, error) {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return "", nil
	case strings.EqualFold(trimmed, string(StatusOpen)):
		return StatusOpen, nil
	case strings.EqualFold(trimmed, string(StatusResolved)):
		return StatusResolved, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
}

// CanTransitionTo reports whether a record may move from s to next.
// The only forward edge is Open -> Resolved.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusOpen && next == StatusResolved
}

// Record is one logged delivery exception.
type Record struct {
	ID           uint64
	DeliveryID   string
	CustomerName string
	IssueType    IssueType
	Priority     Priority
	Status       Status
	Notes        string
}

func (r Record) IsResolved() bool {
	return r.Status == StatusResolved
}

func (r Record) IsHighPriority() bool {
	return r.Priority == PriorityHigh
}

// Resolve returns r moved to Resolved. ok is false when r is already resolved.
func Resolve(r Record) (Record, bool) {
	if !r.Status.CanTransitionTo(StatusResolved) {
		return r, false
	}
	r.Status = StatusResolved
	return r, true
}
