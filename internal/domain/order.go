// Package domain holds the order aggregate, its event variants, and the
// value objects they are built from.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the event-sourced order aggregate. State is only ever mutated by
// applying events: commands validate against current state, raise one event,
// and apply it. Every apply path, creation included, advances version to the
// event's sequence number so consecutive commands on the same instance never
// reuse a sequence number.
type Order struct {
	id              uuid.UUID
	version         int
	status          OrderStatus
	customerName    string
	orderDate       time.Time
	shippingAddress Address
	items           []OrderItem
	paymentDate     time.Time
	shippingDate    time.Time
	trackingNumber  string
	carrier         string

	pending []Event
}

// NewOrder returns a blank aggregate ready for replay. Version -1 means no
// events have been applied yet.
func NewOrder() *Order {
	return &Order{version: -1}
}

// CreateOrder starts a new order in Processing status.
func CreateOrder(customerName string, address Address, items []OrderItem) (*Order, error) {
	if customerName == "" {
		return nil, NewError(CodeInvalidArgument, "customer name is required")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NewError(CodeInvalidArgument, "order must contain at least one item")
	}
	valid := make([]OrderItem, 0, len(items))
	for _, it := range items {
		item, err := NewOrderItem(it.ProductID, it.ProductName, it.UnitPrice, it.Quantity)
		if err != nil {
			return nil, err
		}
		valid = append(valid, item)
	}

	o := NewOrder()
	o.raise(&OrderCreated{
		EventBase:    newEventBase(uuid.New(), o.version+1),
		CustomerName: customerName,
		OrderDate:    time.Now().UTC(),
		Address:      address,
		Items:        valid,
	})
	return o, nil
}

// AddItem appends a line item. Only legal while the order is Processing.
func (o *Order) AddItem(productID uuid.UUID, productName string, unitPrice Money, quantity int) error {
	if o.status != StatusProcessing {
		return Errorf(CodeInvalidState, "cannot add items to a %s order", o.status)
	}
	item, err := NewOrderItem(productID, productName, unitPrice, quantity)
	if err != nil {
		return err
	}
	o.raise(&OrderItemAdded{
		EventBase:   newEventBase(o.id, o.version+1),
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
	})
	return nil
}

// SetShippingAddress replaces the shipping address. Only legal while the
// order is Processing.
func (o *Order) SetShippingAddress(address Address) error {
	if o.status != StatusProcessing {
		return Errorf(CodeInvalidState, "cannot change shipping address of a %s order", o.status)
	}
	if err := address.Validate(); err != nil {
		return err
	}
	o.raise(&OrderAddressSet{
		EventBase: newEventBase(o.id, o.version+1),
		Address:   address,
	})
	return nil
}

// MarkAsPaid records a payment covering the order total.
func (o *Order) MarkAsPaid(amount Money, paymentMethod, transactionID string) error {
	if o.status == StatusPaid {
		return NewError(CodeInvalidState, "order is already paid")
	}
	if transactionID == "" {
		return NewError(CodeInvalidArgument, "transaction id is required")
	}
	total, err := o.TotalAmount()
	if err != nil {
		return err
	}
	cmp, err := amount.Cmp(total)
	if err != nil {
		return err
	}
	if cmp < 0 {
		return Errorf(CodeInvalidArgument,
			"payment amount %s is less than the order total %s", amount, total)
	}
	o.raise(&OrderPaid{
		EventBase:     newEventBase(o.id, o.version+1),
		Amount:        amount,
		PaymentMethod: paymentMethod,
		TransactionID: transactionID,
		PaymentDate:   time.Now().UTC(),
	})
	return nil
}

// Ship hands the order to a carrier. Only legal once the order is Paid.
func (o *Order) Ship(trackingNumber, carrier string) error {
	if o.status != StatusPaid {
		return Errorf(CodeInvalidState, "cannot ship a %s order", o.status)
	}
	if trackingNumber == "" {
		return NewError(CodeInvalidArgument, "tracking number is required")
	}
	if carrier == "" {
		return NewError(CodeInvalidArgument, "carrier is required")
	}
	o.raise(&OrderShipped{
		EventBase:      newEventBase(o.id, o.version+1),
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
		ShippingDate:   time.Now().UTC(),
	})
	return nil
}

// Cancel cancels the order unless it already left the warehouse.
func (o *Order) Cancel(reason string) error {
	if o.status == StatusShipped || o.status == StatusDelivered {
		return Errorf(CodeInvalidState, "cannot cancel a %s order", o.status)
	}
	if reason == "" {
		return NewError(CodeInvalidArgument, "cancellation reason is required")
	}
	o.raise(&OrderCanceled{
		EventBase:        newEventBase(o.id, o.version+1),
		Reason:           reason,
		CancellationDate: time.Now().UTC(),
	})
	return nil
}

// ReplayFrom rebuilds state from persisted history, ascending by sequence
// number. Replayed events are facts, not new commands: nothing is enqueued
// as pending.
func (o *Order) ReplayFrom(history []Event) error {
	for _, e := range history {
		if e.Base().SequenceNumber != o.version+1 {
			return Errorf(CodeInvalidArgument,
				"event history gap: expected sequence %d, got %d",
				o.version+1, e.Base().SequenceNumber)
		}
		o.apply(e)
	}
	return nil
}

// TakePendingEvents returns and clears events raised since construction.
func (o *Order) TakePendingEvents() []Event {
	p := o.pending
	o.pending = nil
	return p
}

func (o *Order) raise(e Event) {
	o.apply(e)
	o.pending = append(o.pending, e)
}

func (o *Order) apply(e Event) {
	switch ev := e.(type) {
	case *OrderCreated:
		o.id = ev.AggregateID
		o.customerName = ev.CustomerName
		o.orderDate = ev.OrderDate
		o.shippingAddress = ev.Address
		o.items = append([]OrderItem(nil), ev.Items...)
		o.status = StatusProcessing
	case *OrderItemAdded:
		o.items = append(o.items, OrderItem{
			ProductID:   ev.ProductID,
			ProductName: ev.ProductName,
			UnitPrice:   ev.UnitPrice,
			Quantity:    ev.Quantity,
		})
	case *OrderAddressSet:
		o.shippingAddress = ev.Address
	case *OrderPaid:
		o.status = StatusPaid
		o.paymentDate = ev.PaymentDate
	case *OrderShipped:
		o.status = StatusShipped
		o.shippingDate = ev.ShippingDate
		o.trackingNumber = ev.TrackingNumber
		o.carrier = ev.Carrier
	case *OrderCanceled:
		o.status = StatusCanceled
	}
	o.version = e.Base().SequenceNumber
}

// TotalAmount sums all line totals. Fails when line items mix currencies.
func (o *Order) TotalAmount() (Money, error) {
	if len(o.items) == 0 {
		return Money{}, nil
	}
	total := Money{Currency: o.items[0].UnitPrice.Currency}
	for _, item := range o.items {
		sum, err := total.Add(item.TotalPrice())
		if err != nil {
			return Money{}, err
		}
		total = sum
	}
	return total, nil
}

func (o *Order) ID() uuid.UUID            { return o.id }
func (o *Order) Version() int             { return o.version }
func (o *Order) Status() OrderStatus      { return o.status }
func (o *Order) CustomerName() string     { return o.customerName }
func (o *Order) OrderDate() time.Time     { return o.orderDate }
func (o *Order) ShippingAddress() Address { return o.shippingAddress }
func (o *Order) PaymentDate() time.Time   { return o.paymentDate }
func (o *Order) ShippingDate() time.Time  { return o.shippingDate }
func (o *Order) TrackingNumber() string   { return o.trackingNumber }
func (o *Order) Carrier() string          { return o.carrier }

// Items returns a copy of the line items.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}
