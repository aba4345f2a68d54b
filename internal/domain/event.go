package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType discriminates persisted event payloads. The set of event types is
// closed: the event store codec keeps an explicit registry over exactly these
// variants, so adding one here requires a matching registry entry.
type EventType string

const (
	EventTypeOrderCreated    EventType = "order.created"
	EventTypeOrderItemAdded  EventType = "order.item_added"
	EventTypeOrderAddressSet EventType = "order.address_set"
	EventTypeOrderPaid       EventType = "order.paid"
	EventTypeOrderShipped    EventType = "order.shipped"
	EventTypeOrderCanceled   EventType = "order.canceled"
)

// Event is an immutable fact about one order.
type Event interface {
	Type() EventType
	Base() *EventBase
}

// EventBase carries the identity and ordering fields shared by every event.
type EventBase struct {
	EventID        uuid.UUID `json:"eventId"`
	AggregateID    uuid.UUID `json:"aggregateId"`
	CreatedAt      time.Time `json:"createdAt"`
	SequenceNumber int       `json:"sequenceNumber"`
}

// Base returns the shared event fields.
func (b *EventBase) Base() *EventBase { return b }

func newEventBase(aggregateID uuid.UUID, sequence int) EventBase {
	return EventBase{
		EventID:        uuid.New(),
		AggregateID:    aggregateID,
		CreatedAt:      time.Now().UTC(),
		SequenceNumber: sequence,
	}
}

// OrderCreated records the creation of an order with its initial items.
type OrderCreated struct {
	EventBase
	CustomerName string      `json:"customerName"`
	OrderDate    time.Time   `json:"orderDate"`
	Address      Address     `json:"address"`
	Items        []OrderItem `json:"items"`
}

func (*OrderCreated) Type() EventType { return EventTypeOrderCreated }

// OrderItemAdded records a line item appended to an order.
type OrderItemAdded struct {
	EventBase
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	UnitPrice   Money     `json:"unitPrice"`
	Quantity    int       `json:"quantity"`
}

func (*OrderItemAdded) Type() EventType { return EventTypeOrderItemAdded }

// OrderAddressSet records a shipping address change.
type OrderAddressSet struct {
	EventBase
	Address Address `json:"address"`
}

func (*OrderAddressSet) Type() EventType { return EventTypeOrderAddressSet }

// OrderPaid records a successful payment.
type OrderPaid struct {
	EventBase
	Amount        Money     `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
	PaymentDate   time.Time `json:"paymentDate"`
}

func (*OrderPaid) Type() EventType { return EventTypeOrderPaid }

// OrderShipped records the handoff to a carrier.
type OrderShipped struct {
	EventBase
	TrackingNumber string    `json:"trackingNumber"`
	Carrier        string    `json:"carrier"`
	ShippingDate   time.Time `json:"shippingDate"`
}

func (*OrderShipped) Type() EventType { return EventTypeOrderShipped }

// OrderCanceled records a cancellation.
type OrderCanceled struct {
	EventBase
	Reason           string    `json:"reason"`
	CancellationDate time.Time `json:"cancellationDate"`
}

func (*OrderCanceled) Type() EventType { return EventTypeOrderCanceled }
