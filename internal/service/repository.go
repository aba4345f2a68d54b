// Package service hosts the application layer: command handlers that drive
// the order aggregate through the repository, and query handlers that read
// only the projected model.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
	"github.com/luuthuong/go-ecommerce-order/internal/eventstore"
)

// Repository loads order aggregates by full replay and persists their
// pending events through the event log.
type Repository struct {
	store  eventstore.Store
	logger *slog.Logger
}

// NewRepository creates a repository over the given event log.
func NewRepository(store eventstore.Store, logger *slog.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// Load replays the aggregate's history into a fresh instance. An aggregate
// with no history fails with NOT_FOUND.
func (r *Repository) Load(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	events, err := r.store.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.Errorf(domain.CodeNotFound, "order %s not found", id)
	}
	order := domain.NewOrder()
	if err := order.ReplayFrom(events); err != nil {
		return nil, err
	}
	return order, nil
}

// Save appends the aggregate's pending events. The expected version is the
// sequence directly before the first pending event, which is the version the
// aggregate was loaded at; a concurrent writer in between turns into a
// VERSION_CONFLICT instead of a corrupted log.
func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	events := order.TakePendingEvents()
	if len(events) == 0 {
		r.logger.DebugContext(ctx, "no events to save", "order_id", order.ID())
		return nil
	}
	expectedVersion := events[0].Base().SequenceNumber - 1
	return r.store.Append(ctx, order.ID(), expectedVersion, events)
}
