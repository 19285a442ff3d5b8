package ports

import (
	"context"

	"deliverydesk/internal/domain/exception"
)

// View consumes row and counter instructions emitted after each operation.
// Apply is called with the service lock held and must not call back into the service.
type View interface {
	Apply(changes []exception.Change)
}

// Confirmer is the yes/no gate asked before a delete takes effect.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	if f == nil {
		return false
	}
	return f(ctx, prompt)
}

// Confirmed answers yes, for callers that collected confirmation beforehand.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// Declined answers no.
var Declined Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
