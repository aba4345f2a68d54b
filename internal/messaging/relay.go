package messaging

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// Relay subscribes to the event store broadcast and republishes committed
// order events as integration events. Like the projector, it runs after the
// log commit: a publish failure surfaces to the command caller without
// rolling back the durable write.
type Relay struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewRelay creates a relay over the given publisher.
func NewRelay(publisher Publisher, logger *slog.Logger) *Relay {
	return &Relay{publisher: publisher, logger: logger}
}

// HandleEvent translates one committed domain event and publishes it.
func (r *Relay) HandleEvent(ctx context.Context, e domain.Event) error {
	event := translate(e)
	if err := r.publisher.Publish(ctx, event); err != nil {
		return err
	}
	r.logger.DebugContext(ctx, "integration event published",
		"event_type", event.EventType, "order_id", event.OrderID)
	return nil
}

func translate(e domain.Event) OrderEvent {
	b := e.Base()
	event := OrderEvent{
		OrderID:    b.AggregateID.String(),
		Version:    b.SequenceNumber,
		OccurredAt: b.CreatedAt,
	}
	switch ev := e.(type) {
	case *domain.OrderCreated:
		event.EventType = EventOrderCreated
		event.CustomerName = ev.CustomerName
		event.NewStatus = domain.StatusProcessing.String()
		total := decimal.Zero
		for _, item := range ev.Items {
			total = total.Add(item.TotalPrice().Amount)
		}
		event.Total = total
	case *domain.OrderItemAdded:
		event.EventType = EventOrderUpdated
		event.Total = ev.UnitPrice.MulInt(ev.Quantity).Amount
	case *domain.OrderAddressSet:
		event.EventType = EventOrderUpdated
	case *domain.OrderPaid:
		event.EventType = EventOrderStatusChanged
		event.NewStatus = domain.StatusPaid.String()
		event.Total = ev.Amount.Amount
	case *domain.OrderShipped:
		event.EventType = EventOrderStatusChanged
		event.NewStatus = domain.StatusShipped.String()
	case *domain.OrderCanceled:
		event.EventType = EventOrderStatusChanged
		event.NewStatus = domain.StatusCanceled.String()
	}
	return event
}
