package audit

import (
	"context"
	"time"
)

// Emitter is what services depend on. Audit writes are advisory for this
// portal: failures are reported to the caller, which logs and proceeds.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher captures structured audit events through the storage layer so
// tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, principal string) ([]Event, error) {
	return p.store.ListByPrincipal(ctx, principal)
}
