package projection

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

// MemoryStore is an in-process read-model store for tests and brokerless
// local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order
}

// NewMemoryStore creates an empty in-memory read model.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[uuid.UUID]*Order)}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.Errorf(domain.CodeNotFound, "order %s not found", id)
	}
	return cloneOrder(o), nil
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, customerName string) ([]OrderSummary, error) {
	return s.list(func(o *Order) bool {
		return customerName == "" || o.CustomerName == customerName
	})
}

// ListByStatus implements Store.
func (s *MemoryStore) ListByStatus(ctx context.Context, status string) ([]OrderSummary, error) {
	return s.list(func(o *Order) bool { return o.Status == status })
}

func (s *MemoryStore) list(match func(*Order) bool) ([]OrderSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]OrderSummary, 0)
	for _, o := range s.orders {
		if !match(o) {
			continue
		}
		summaries = append(summaries, OrderSummary{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			OrderDate:    o.OrderDate,
			Status:       o.Status,
			TotalAmount:  o.TotalAmount,
			ItemCount:    len(o.Items),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].OrderDate.After(summaries[j].OrderDate)
	})
	return summaries, nil
}

func cloneOrder(o *Order) *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	if o.PaymentDate != nil {
		d := *o.PaymentDate
		c.PaymentDate = &d
	}
	if o.ShippingDate != nil {
		d := *o.ShippingDate
		c.ShippingDate = &d
	}
	return &c
}
