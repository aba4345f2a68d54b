package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// OrderService handles order commands. Each command is one unit of work:
// load (or create) the aggregate, run exactly one command on it, persist its
// pending events, discard the instance.
type OrderService struct {
	repo   *Repository
	logger *slog.Logger
}

// NewOrderService creates the command-side service.
func NewOrderService(repo *Repository, logger *slog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

// CreateOrder starts a new order and returns its id.
func (s *OrderService) CreateOrder(ctx context.Context, customerName string, address domain.Address, items []domain.OrderItem) (uuid.UUID, error) {
	order, err := domain.CreateOrder(customerName, address, items)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return uuid.Nil, err
	}
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID(), "customer", customerName)
	return order.ID(), nil
}

// AddItem appends a line item to an existing order.
func (s *OrderService) AddItem(ctx context.Context, orderID, productID uuid.UUID, productName string, unitPrice domain.Money, quantity int) error {
	return s.execute(ctx, orderID, func(order *domain.Order) error {
		return order.AddItem(productID, productName, unitPrice, quantity)
	})
}

// SetShippingAddress replaces the order's shipping address.
func (s *OrderService) SetShippingAddress(ctx context.Context, orderID uuid.UUID, address domain.Address) error {
	return s.execute(ctx, orderID, func(order *domain.Order) error {
		return order.SetShippingAddress(address)
	})
}

// PayOrder records a payment against the order.
func (s *OrderService) PayOrder(ctx context.Context, orderID uuid.UUID, amount domain.Money, paymentMethod, transactionID string) error {
	return s.execute(ctx, orderID, func(order *domain.Order) error {
		return order.MarkAsPaid(amount, paymentMethod, transactionID)
	})
}

// ShipOrder hands a paid order to a carrier.
func (s *OrderService) ShipOrder(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) error {
	return s.execute(ctx, orderID, func(order *domain.Order) error {
		return order.Ship(trackingNumber, carrier)
	})
}

// CancelOrder cancels an order that has not shipped.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	return s.execute(ctx, orderID, func(order *domain.Order) error {
		return order.Cancel(reason)
	})
}

func (s *OrderService) execute(ctx context.Context, orderID uuid.UUID, command func(order *domain.Order) error) error {
	order, err := s.repo.Load(ctx, orderID)
	if err != nil {
		return err
	}
	if err := command(order); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "order updated",
		"order_id", orderID, "version", order.Version())
	return nil
}
