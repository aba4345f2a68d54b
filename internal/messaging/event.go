// Package messaging publishes integration events derived from committed
// order events, for consumers outside this service.
package messaging

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Integration event type constants.
const (
	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message envelope for order integration events.
type OrderEvent struct {
	EventType    string          `json:"event_type"`
	OrderID      string          `json:"order_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	NewStatus    string          `json:"new_status,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Version      int             `json:"version"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// Publisher delivers integration events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}
