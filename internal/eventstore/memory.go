package eventstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// MemoryStore is an in-process Store used in tests and when no Postgres DSN
// is configured. Events still round-trip through the codec so the durable
// payload shape is exercised everywhere.
type MemoryStore struct {
	mu       sync.Mutex
	byAgg    map[uuid.UUID][]Record
	handlers []Handler
}

// NewMemoryStore creates an empty in-memory event log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byAgg: make(map[uuid.UUID][]Record)}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, aggregateID uuid.UUID, expectedVersion int, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	records, err := buildRecords(events, expectedVersion)
	if err != nil {
		return err
	}

	s.mu.Lock()
	existing := s.byAgg[aggregateID]
	latest := -1
	if n := len(existing); n > 0 {
		latest = existing[n-1].SequenceNumber
	}
	if latest != expectedVersion {
		s.mu.Unlock()
		return domain.Errorf(domain.CodeVersionConflict,
			"aggregate %s is at version %d, expected %d", aggregateID, latest, expectedVersion)
	}
	s.byAgg[aggregateID] = append(existing, records...)
	handlers := append([]Handler(nil), s.handlers...)
	s.mu.Unlock()

	return broadcast(ctx, handlers, events)
}

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context, aggregateID uuid.UUID) ([]domain.Event, error) {
	s.mu.Lock()
	records := append([]Record(nil), s.byAgg[aggregateID]...)
	s.mu.Unlock()

	events := make([]domain.Event, 0, len(records))
	for _, rec := range records {
		e, err := Decode(rec.Payload, rec.EventType)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// Subscribe registers a committed-event handler.
func (s *MemoryStore) Subscribe(h Handler) {
	s.mu.Lock()
	s.handlers = append(s.handlers, h)
	s.mu.Unlock()
}
