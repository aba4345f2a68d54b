package noop

import (
	"context"

	"github.com/luuthuong/go-ecommerce-order/internal/messaging"
)

// Publisher is a no-op messaging.Publisher used when Kafka is not configured.
type Publisher struct{}

func (Publisher) Publish(_ context.Context, _ messaging.OrderEvent) error { return nil }
