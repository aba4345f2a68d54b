package projection

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// Invalidator drops a cached order detail after the projection changes it.
type Invalidator interface {
	Invalidate(ctx context.Context, orderID uuid.UUID) error
}

// Projector consumes committed events and keeps the read model current. One
// handler per event variant; each is idempotent because an event whose
// sequence number does not advance the stored row version is skipped, so a
// redelivered event cannot double-apply.
type Projector struct {
	reads  Store
	cache  Invalidator
	logger *slog.Logger
}

// NewProjector creates a projector over the given read-model store. cache may
// be nil when no cache is configured.
func NewProjector(reads Store, cache Invalidator, logger *slog.Logger) *Projector {
	return &Projector{reads: reads, cache: cache, logger: logger}
}

// HandleEvent dispatches one committed event to its handler.
func (p *Projector) HandleEvent(ctx context.Context, e domain.Event) error {
	var err error
	switch ev := e.(type) {
	case *domain.OrderCreated:
		err = p.applyCreated(ctx, ev)
	case *domain.OrderItemAdded:
		err = p.applyItemAdded(ctx, ev)
	case *domain.OrderAddressSet:
		err = p.applyAddressSet(ctx, ev)
	case *domain.OrderPaid:
		err = p.applyPaid(ctx, ev)
	case *domain.OrderShipped:
		err = p.applyShipped(ctx, ev)
	case *domain.OrderCanceled:
		err = p.applyCanceled(ctx, ev)
	default:
		p.logger.WarnContext(ctx, "no projection handler for event",
			"event_type", e.Type())
		return nil
	}
	if err != nil {
		return err
	}
	if p.cache != nil {
		if err := p.cache.Invalidate(ctx, e.Base().AggregateID); err != nil {
			p.logger.WarnContext(ctx, "cache invalidation failed",
				"order_id", e.Base().AggregateID, "error", err)
		}
	}
	return nil
}

func (p *Projector) applyCreated(ctx context.Context, ev *domain.OrderCreated) error {
	if existing, err := p.reads.Get(ctx, ev.AggregateID); err == nil &&
		existing.Version >= ev.SequenceNumber {
		return nil
	} else if err != nil && !domain.IsCode(err, domain.CodeNotFound) {
		return err
	}

	o := &Order{
		ID:              ev.AggregateID,
		CustomerName:    ev.CustomerName,
		OrderDate:       ev.OrderDate,
		Status:          domain.StatusProcessing.String(),
		ShippingAddress: ev.Address,
		Version:         ev.SequenceNumber,
	}
	for _, item := range ev.Items {
		o.Items = append(o.Items, OrderItem{
			OrderID:     ev.AggregateID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.Amount,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice().Amount,
		})
	}
	o.recomputeTotal()
	return p.reads.Put(ctx, o)
}

func (p *Projector) applyItemAdded(ctx context.Context, ev *domain.OrderItemAdded) error {
	return p.mutate(ctx, ev, func(o *Order) {
		o.Items = append(o.Items, OrderItem{
			OrderID:     ev.AggregateID,
			ProductID:   ev.ProductID,
			ProductName: ev.ProductName,
			UnitPrice:   ev.UnitPrice.Amount,
			Quantity:    ev.Quantity,
			TotalPrice:  ev.UnitPrice.MulInt(ev.Quantity).Amount,
		})
		o.recomputeTotal()
	})
}

func (p *Projector) applyAddressSet(ctx context.Context, ev *domain.OrderAddressSet) error {
	return p.mutate(ctx, ev, func(o *Order) {
		o.ShippingAddress = ev.Address
	})
}

func (p *Projector) applyPaid(ctx context.Context, ev *domain.OrderPaid) error {
	return p.mutate(ctx, ev, func(o *Order) {
		o.Status = domain.StatusPaid.String()
		paymentDate := ev.PaymentDate
		o.PaymentDate = &paymentDate
	})
}

func (p *Projector) applyShipped(ctx context.Context, ev *domain.OrderShipped) error {
	return p.mutate(ctx, ev, func(o *Order) {
		o.Status = domain.StatusShipped.String()
		shippingDate := ev.ShippingDate
		o.ShippingDate = &shippingDate
		o.TrackingNumber = ev.TrackingNumber
		o.Carrier = ev.Carrier
	})
}

func (p *Projector) applyCanceled(ctx context.Context, ev *domain.OrderCanceled) error {
	return p.mutate(ctx, ev, func(o *Order) {
		o.Status = domain.StatusCanceled.String()
	})
}

// mutate loads the projected row, applies fn, stamps the event's sequence
// number as the row version, and writes it back. A missing row is logged and
// skipped rather than reconstructed here; rebuilding is a replay concern.
func (p *Projector) mutate(ctx context.Context, e domain.Event, fn func(o *Order)) error {
	b := e.Base()
	o, err := p.reads.Get(ctx, b.AggregateID)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			p.logger.ErrorContext(ctx, "projected order missing",
				"order_id", b.AggregateID, "event_type", e.Type())
			return nil
		}
		return err
	}
	if b.SequenceNumber <= o.Version {
		return nil
	}
	fn(o)
	o.Version = b.SequenceNumber
	return p.reads.Put(ctx, o)
}
