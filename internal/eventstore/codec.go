package eventstore

import (
	"encoding/json"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// decoders is the closed registry of known event variants. Polymorphic
// recovery resolves the persisted type tag against this map only; an
// unregistered tag is a decoding failure, never a silent skip.
var decoders = map[domain.EventType]func() domain.Event{
	domain.EventTypeOrderCreated:    func() domain.Event { return new(domain.OrderCreated) },
	domain.EventTypeOrderItemAdded:  func() domain.Event { return new(domain.OrderItemAdded) },
	domain.EventTypeOrderAddressSet: func() domain.Event { return new(domain.OrderAddressSet) },
	domain.EventTypeOrderPaid:       func() domain.Event { return new(domain.OrderPaid) },
	domain.EventTypeOrderShipped:    func() domain.Event { return new(domain.OrderShipped) },
	domain.EventTypeOrderCanceled:   func() domain.Event { return new(domain.OrderCanceled) },
}

// Encode serializes an event body to its durable JSON payload.
func Encode(e domain.Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, domain.WrapError(domain.CodeEncodingFailed,
			"marshal "+string(e.Type()), err)
	}
	return payload, nil
}

// Decode recovers an event from its payload and type tag.
func Decode(payload []byte, eventType domain.EventType) (domain.Event, error) {
	newEvent, ok := decoders[eventType]
	if !ok {
		return nil, domain.Errorf(domain.CodeDecodingFailed,
			"unknown event type %q", eventType)
	}
	e := newEvent()
	if err := json.Unmarshal(payload, e); err != nil {
		return nil, domain.WrapError(domain.CodeDecodingFailed,
			"unmarshal "+string(eventType), err)
	}
	return e, nil
}
