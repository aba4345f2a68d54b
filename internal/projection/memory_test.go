package projection

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
)

func storedOrder(customer, status string, placedAt time.Time) *Order {
	return &Order{
		ID:           uuid.New(),
		CustomerName: customer,
		OrderDate:    placedAt,
		Status:       status,
		TotalAmount:  decimal.RequireFromString("50"),
		Version:      0,
		Items: []OrderItem{{
			ProductID:   uuid.New(),
			ProductName: "widget",
			UnitPrice:   decimal.RequireFromString("25"),
			Quantity:    2,
			TotalPrice:  decimal.RequireFromString("50"),
		}},
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	o := storedOrder("alice", domain.StatusProcessing.String(), time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	require.NoError(t, store.Put(ctx, o))

	got, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)

	// The stored copy is isolated from caller mutation.
	got.Items[0].Quantity = 99
	again, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	older := storedOrder("alice", domain.StatusProcessing.String(), time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	newer := storedOrder("alice", domain.StatusPaid.String(), time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	other := storedOrder("bob", domain.StatusProcessing.String(), time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC))
	for _, o := range []*Order{older, newer, other} {
		require.NoError(t, store.Put(ctx, o))
	}

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, other.ID, all[1].ID)
	assert.Equal(t, older.ID, all[2].ID)

	alices, err := store.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alices, 2)
	assert.Equal(t, newer.ID, alices[0].ID)
	assert.Equal(t, 1, alices[0].ItemCount)
}

func TestMemoryStoreListByStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, storedOrder("alice", domain.StatusPaid.String(), time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Put(ctx, storedOrder("bob", domain.StatusProcessing.String(), time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))))

	paid, err := store.ListByStatus(ctx, domain.StatusPaid.String())
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "alice", paid[0].CustomerName)
}
