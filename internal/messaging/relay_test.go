package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

type capturePublisher struct {
	events []OrderEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event OrderEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func eventBase(aggregateID uuid.UUID, seq int) domain.EventBase {
	return domain.EventBase{
		EventID:        uuid.New(),
		AggregateID:    aggregateID,
		CreatedAt:      time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		SequenceNumber: seq,
	}
}

func TestRelayTranslatesCreated(t *testing.T) {
	pub := &capturePublisher{}
	relay := NewRelay(pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	aggID := uuid.New()

	err := relay.HandleEvent(context.Background(), &domain.OrderCreated{
		EventBase:    eventBase(aggID, 0),
		CustomerName: "alice",
		OrderDate:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ProductID: uuid.New(), ProductName: "widget", UnitPrice: domain.MustMoney("25", "USD"), Quantity: 2},
			{ProductID: uuid.New(), ProductName: "gadget", UnitPrice: domain.MustMoney("5", "USD"), Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	got := pub.events[0]
	assert.Equal(t, EventOrderCreated, got.EventType)
	assert.Equal(t, aggID.String(), got.OrderID)
	assert.Equal(t, "alice", got.CustomerName)
	assert.Equal(t, domain.StatusProcessing.String(), got.NewStatus)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("55")))
	assert.Equal(t, 0, got.Version)
}

func TestRelayTranslatesStatusChanges(t *testing.T) {
	aggID := uuid.New()
	tests := []struct {
		name       string
		event      domain.Event
		wantType   string
		wantStatus string
	}{
		{
			name: "paid",
			event: &domain.OrderPaid{
				EventBase: eventBase(aggID, 1),
				Amount:    domain.MustMoney("55", "USD"),
			},
			wantType:   EventOrderStatusChanged,
			wantStatus: domain.StatusPaid.String(),
		},
		{
			name: "shipped",
			event: &domain.OrderShipped{
				EventBase:      eventBase(aggID, 2),
				TrackingNumber: "TRK-1",
				Carrier:        "UPS",
			},
			wantType:   EventOrderStatusChanged,
			wantStatus: domain.StatusShipped.String(),
		},
		{
			name: "canceled",
			event: &domain.OrderCanceled{
				EventBase: eventBase(aggID, 1),
				Reason:    "changed mind",
			},
			wantType:   EventOrderStatusChanged,
			wantStatus: domain.StatusCanceled.String(),
		},
		{
			name: "item added",
			event: &domain.OrderItemAdded{
				EventBase: eventBase(aggID, 1),
				ProductID: uuid.New(),
				UnitPrice: domain.MustMoney("5", "USD"),
				Quantity:  2,
			},
			wantType: EventOrderUpdated,
		},
		{
			name: "address set",
			event: &domain.OrderAddressSet{
				EventBase: eventBase(aggID, 1),
			},
			wantType: EventOrderUpdated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.event)
			assert.Equal(t, tt.wantType, got.EventType)
			assert.Equal(t, tt.wantStatus, got.NewStatus)
			assert.Equal(t, aggID.String(), got.OrderID)
			assert.Equal(t, tt.event.Base().SequenceNumber, got.Version)
			assert.Equal(t, tt.event.Base().CreatedAt, got.OccurredAt)
		})
	}
}

func TestRelayPropagatesPublishFailure(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	relay := NewRelay(pub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := relay.HandleEvent(context.Background(), &domain.OrderCanceled{
		EventBase: eventBase(uuid.New(), 1),
		Reason:    "changed mind",
	})
	require.Error(t, err)
}
