// Package eventstore persists order events as an append-only, per-aggregate
// ordered log and broadcasts committed events to subscribers.
package eventstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// Record is the persisted form of one event.
type Record struct {
	EventID        uuid.UUID
	AggregateID    uuid.UUID
	CreatedAt      time.Time
	SequenceNumber int
	EventType      domain.EventType
	Payload        []byte
}

// Handler consumes committed events. Handlers run sequentially, in append
// order, after the transaction commits.
type Handler interface {
	HandleEvent(ctx context.Context, e domain.Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, e domain.Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, e domain.Event) error {
	return f(ctx, e)
}

// Store is the append-only event log.
//
// Append persists events atomically and then notifies subscribers. The caller
// passes the version it loaded the aggregate at (-1 for a brand-new
// aggregate); a mismatch with the latest persisted sequence number fails with
// VERSION_CONFLICT instead of silently corrupting the log. A subscriber
// failure after the commit surfaces as PROJECTION_FAILURE; the committed
// events are durable regardless.
//
// Read returns all events for the aggregate ascending by sequence number; an
// empty history is an empty slice, not an error.
type Store interface {
	Append(ctx context.Context, aggregateID uuid.UUID, expectedVersion int, events []domain.Event) error
	Read(ctx context.Context, aggregateID uuid.UUID) ([]domain.Event, error)
	Subscribe(h Handler)
}

func recordFrom(e domain.Event) (Record, error) {
	payload, err := Encode(e)
	if err != nil {
		return Record{}, err
	}
	b := e.Base()
	return Record{
		EventID:        b.EventID,
		AggregateID:    b.AggregateID,
		CreatedAt:      b.CreatedAt,
		SequenceNumber: b.SequenceNumber,
		EventType:      e.Type(),
		Payload:        payload,
	}, nil
}

// buildRecords encodes events for persistence, verifying they continue the
// aggregate's sequence directly after expectedVersion with no gaps.
func buildRecords(events []domain.Event, expectedVersion int) ([]Record, error) {
	records := make([]Record, 0, len(events))
	next := expectedVersion + 1
	for _, e := range events {
		if e.Base().SequenceNumber != next {
			return nil, domain.Errorf(domain.CodeInvalidArgument,
				"non-contiguous append: expected sequence %d, got %d",
				next, e.Base().SequenceNumber)
		}
		rec, err := recordFrom(e)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		next++
	}
	return records, nil
}

// broadcast dispatches committed events to subscribers sequentially and in
// append order. The first failure stops the fan-out and is reported as a
// projection failure.
func broadcast(ctx context.Context, handlers []Handler, events []domain.Event) error {
	for _, e := range events {
		for _, h := range handlers {
			if err := h.HandleEvent(ctx, e); err != nil {
				return domain.WrapError(domain.CodeProjectionFailure,
					"handle "+string(e.Type()), err)
			}
		}
	}
	return nil
}
