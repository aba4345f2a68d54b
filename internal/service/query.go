package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
	"github.com/luuthuong/go-ecommerce-order/internal/eventstore"
	"github.com/luuthuong/go-ecommerce-order/internal/projection"
)

// OrderCache is a best-effort cache for projected order details. Both
// methods are allowed to miss silently; the read model is the fallback.
type OrderCache interface {
	Get(ctx context.Context, id uuid.UUID) (*projection.Order, bool)
	Set(ctx context.Context, o *projection.Order)
}

// OrderEvent is one entry of an order's raw event history.
type OrderEvent struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"orderId"`
	EventType      string          `json:"eventType"`
	Timestamp      time.Time       `json:"timestamp"`
	SequenceNumber int             `json:"sequenceNumber"`
	Data           json.RawMessage `json:"data"`
}

// QueryService answers order queries from the projected read model. Only the
// event-history query touches the event log; everything else reads the
// projection.
type QueryService struct {
	reads  projection.Store
	cache  OrderCache
	events eventstore.Store
	logger *slog.Logger
}

// NewQueryService creates the query-side service. cache may be nil.
func NewQueryService(reads projection.Store, cache OrderCache, events eventstore.Store, logger *slog.Logger) *QueryService {
	return &QueryService{reads: reads, cache: cache, events: events, logger: logger}
}

// GetOrder returns one projected order with its items.
func (s *QueryService) GetOrder(ctx context.Context, id uuid.UUID) (*projection.Order, error) {
	if s.cache != nil {
		if o, ok := s.cache.Get(ctx, id); ok {
			return o, nil
		}
	}
	o, err := s.reads.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, o)
	}
	return o, nil
}

// ListOrders returns order summaries, optionally filtered by customer name.
func (s *QueryService) ListOrders(ctx context.Context, customerName string) ([]projection.OrderSummary, error) {
	return s.reads.List(ctx, customerName)
}

// ListOrdersByStatus returns order summaries in the given status.
func (s *QueryService) ListOrdersByStatus(ctx context.Context, status string) ([]projection.OrderSummary, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.reads.ListByStatus(ctx, parsed.String())
}

// GetOrderEvents returns the order's full event history in sequence order,
// each with its decoded, type-tagged payload.
func (s *QueryService) GetOrderEvents(ctx context.Context, id uuid.UUID) ([]OrderEvent, error) {
	events, err := s.events.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.Errorf(domain.CodeNotFound, "no events found for order %s", id)
	}
	history := make([]OrderEvent, 0, len(events))
	for _, e := range events {
		data, err := eventstore.Encode(e)
		if err != nil {
			return nil, err
		}
		b := e.Base()
		history = append(history, OrderEvent{
			ID:             b.EventID,
			OrderID:        b.AggregateID,
			EventType:      string(e.Type()),
			Timestamp:      b.CreatedAt,
			SequenceNumber: b.SequenceNumber,
			Data:           data,
		})
	}
	return history, nil
}
