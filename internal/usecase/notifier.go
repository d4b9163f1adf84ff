package usecase

import (
	"context"

	"helperhub/internal/domain/request"
)

// RequestNotifier is told about request lifecycle events after they are
// stored. Implementations must not block for long and must not fail the call.
type RequestNotifier interface {
	Notify(ctx context.Context, ev request.Event)
}

// Notifiers fans one event out to every notifier in order.
type Notifiers []RequestNotifier

func (ns Notifiers) Notify(ctx context.Context, ev request.Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}
