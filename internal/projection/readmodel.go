// Package projection maintains the denormalized order read model consumed by
// queries. The read model is a cache over the event log, never the source of
// truth; it can be rebuilt from scratch by replaying every event.
package projection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// Order is one projected order row with its owned line items.
type Order struct {
	ID              uuid.UUID
	CustomerName    string
	OrderDate       time.Time
	Status          string
	ShippingAddress domain.Address
	TotalAmount     decimal.Decimal
	PaymentDate     *time.Time
	ShippingDate    *time.Time
	TrackingNumber  string
	Carrier         string
	Version         int
	Items           []OrderItem
}

// OrderItem is one projected line-item row.
type OrderItem struct {
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	TotalPrice  decimal.Decimal
}

// OrderSummary is the listing shape for order queries.
type OrderSummary struct {
	ID           uuid.UUID
	CustomerName string
	OrderDate    time.Time
	Status       string
	TotalAmount  decimal.Decimal
	ItemCount    int
}

// Store reads and writes the projected model.
//
// Get fails with NOT_FOUND when no row exists. Put upserts the full row
// including its items. List filters by customer name when one is given;
// both listings return newest orders first.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	Put(ctx context.Context, o *Order) error
	List(ctx context.Context, customerName string) ([]OrderSummary, error)
	ListByStatus(ctx context.Context, status string) ([]OrderSummary, error)
}

func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalAmount = total
}
