package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() Address {
	return Address{
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
		Country: "US",
	}
}

func testItem(t *testing.T, price string, quantity int) OrderItem {
	t.Helper()
	item, err := NewOrderItem(uuid.New(), "widget", MustMoney(price, "USD"), quantity)
	require.NoError(t, err)
	return item
}

func newPaidOrder(t *testing.T) *Order {
	t.Helper()
	order, err := CreateOrder("alice", testAddress(), []OrderItem{testItem(t, "25", 2)})
	require.NoError(t, err)
	require.NoError(t, order.MarkAsPaid(MustMoney("50", "USD"), "card", "tx-1"))
	return order
}

func TestCreateOrder(t *testing.T) {
	order, err := CreateOrder("alice", testAddress(), []OrderItem{
		testItem(t, "25", 2),
		testItem(t, "10", 1),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusProcessing, order.Status())
	assert.Equal(t, 0, order.Version())
	assert.NotEqual(t, uuid.Nil, order.ID())
	assert.Len(t, order.Items(), 2)

	total, err := order.TotalAmount()
	require.NoError(t, err)
	assert.True(t, total.Equal(MustMoney("60", "USD")))
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name     string
		customer string
		items    []OrderItem
	}{
		{name: "empty customer", customer: "", items: []OrderItem{testItem(t, "5", 1)}},
		{name: "no items", customer: "alice", items: nil},
		{name: "zero quantity", customer: "alice", items: []OrderItem{
			{ProductID: uuid.New(), ProductName: "widget", UnitPrice: MustMoney("5", "USD"), Quantity: 0},
		}},
		{name: "free item", customer: "alice", items: []OrderItem{
			{ProductID: uuid.New(), ProductName: "widget", UnitPrice: MustMoney("0", "USD"), Quantity: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateOrder(tt.customer, testAddress(), tt.items)
			require.Error(t, err)
			assert.True(t, IsCode(err, CodeInvalidArgument))
		})
	}
}

// Version must advance by exactly one per raised event regardless of command
// path. If a command's apply step skipped the version bump, two commands on
// the same instance would both compute the same sequence number.
func TestVersionAdvancesOncePerCommand(t *testing.T) {
	order, err := CreateOrder("alice", testAddress(), []OrderItem{testItem(t, "25", 2)})
	require.NoError(t, err)
	require.Equal(t, 0, order.Version())

	require.NoError(t, order.AddItem(uuid.New(), "gadget", MustMoney("5", "USD"), 1))
	require.Equal(t, 1, order.Version())

	require.NoError(t, order.SetShippingAddress(testAddress()))
	require.Equal(t, 2, order.Version())

	require.NoError(t, order.MarkAsPaid(MustMoney("55", "USD"), "card", "tx-1"))
	require.Equal(t, 3, order.Version())

	events := order.TakePendingEvents()
	require.Len(t, events, 4)
	for i, e := range events {
		assert.Equal(t, i, e.Base().SequenceNumber)
		assert.Equal(t, order.ID(), e.Base().AggregateID)
	}
}

func TestReplayRebuildsIdenticalState(t *testing.T) {
	order, err := CreateOrder("alice", testAddress(), []OrderItem{testItem(t, "25", 2)})
	require.NoError(t, err)
	require.NoError(t, order.AddItem(uuid.New(), "gadget", MustMoney("5", "USD"), 3))
	require.NoError(t, order.MarkAsPaid(MustMoney("65", "USD"), "card", "tx-9"))
	require.NoError(t, order.Ship("TRK-1", "UPS"))

	history := order.TakePendingEvents()

	replayed := NewOrder()
	require.NoError(t, replayed.ReplayFrom(history))

	assert.Equal(t, order.ID(), replayed.ID())
	assert.Equal(t, order.Version(), replayed.Version())
	assert.Equal(t, order.Status(), replayed.Status())
	assert.Equal(t, order.CustomerName(), replayed.CustomerName())
	assert.Equal(t, order.OrderDate(), replayed.OrderDate())
	assert.Equal(t, order.ShippingAddress(), replayed.ShippingAddress())
	assert.Equal(t, order.Items(), replayed.Items())
	assert.Equal(t, order.PaymentDate(), replayed.PaymentDate())
	assert.Equal(t, order.ShippingDate(), replayed.ShippingDate())
	assert.Equal(t, order.TrackingNumber(), replayed.TrackingNumber())
	assert.Equal(t, order.Carrier(), replayed.Carrier())

	// Replay enqueues nothing: these are persisted facts, not new commands.
	assert.Empty(t, replayed.TakePendingEvents())
}

func TestReplayIsDeterministic(t *testing.T) {
	order, err := CreateOrder("bob", testAddress(), []OrderItem{testItem(t, "9", 1)})
	require.NoError(t, err)
	require.NoError(t, order.Cancel("changed mind"))
	history := order.TakePendingEvents()

	first, second := NewOrder(), NewOrder()
	require.NoError(t, first.ReplayFrom(history))
	require.NoError(t, second.ReplayFrom(history))

	assert.Equal(t, *first, *second)
}

func TestReplayRejectsSequenceGap(t *testing.T) {
	order, err := CreateOrder("bob", testAddress(), []OrderItem{testItem(t, "9", 1)})
	require.NoError(t, err)
	require.NoError(t, order.Cancel("dup"))
	history := order.TakePendingEvents()

	gapped := NewOrder()
	err = gapped.ReplayFrom(history[1:])
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidArgument))
}

func TestAddItemOutsideProcessing(t *testing.T) {
	order := newPaidOrder(t)
	order.TakePendingEvents()

	err := order.AddItem(uuid.New(), "late", MustMoney("1", "USD"), 1)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidState))
	assert.Empty(t, order.TakePendingEvents())
}

func TestSetShippingAddressOutsideProcessing(t *testing.T) {
	order := newPaidOrder(t)
	err := order.SetShippingAddress(testAddress())
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidState))
}

func TestMarkAsPaid(t *testing.T) {
	t.Run("underpayment rejected", func(t *testing.T) {
		order, err := CreateOrder("alice", testAddress(), []OrderItem{testItem(t, "25", 2)})
		require.NoError(t, err)
		err = order.MarkAsPaid(MustMoney("49.99", "USD"), "card", "tx-1")
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInvalidArgument))
	})

	t.Run("exact amount accepted", func(t *testing.T) {
		order, err := CreateOrder("alice", testAddress(), []OrderItem{testItem(t, "25", 2)})
		require.NoError(t, err)
		require.NoError(t, order.MarkAsPaid(MustMoney("50", "USD"), "card", "tx-1"))
		assert.Equal(t, StatusPaid, order.Status())
		assert.False(t, order.PaymentDate().IsZero())
	})

	t.Run("double payment rejected", func(t *testing.T) {
		order := newPaidOrder(t)
		err := order.MarkAsPaid(MustMoney("50", "USD"), "card", "tx-2")
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInvalidState))
	})

	t.Run("missing transaction id rejected", func(t *testing.T) {
		order, err := CreateOrder("alice", testAddress(), []OrderItem{testItem(t, "25", 2)})
		require.NoError(t, err)
		err = order.MarkAsPaid(MustMoney("50", "USD"), "card", "")
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInvalidArgument))
	})
}

func TestShip(t *testing.T) {
	t.Run("before payment rejected", func(t *testing.T) {
		order, err := CreateOrder("alice", testAddress(), []OrderItem{testItem(t, "25", 2)})
		require.NoError(t, err)
		err = order.Ship("TRK-1", "UPS")
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInvalidState))
	})

	t.Run("missing tracking or carrier rejected", func(t *testing.T) {
		order := newPaidOrder(t)
		require.True(t, IsCode(order.Ship("", "UPS"), CodeInvalidArgument))
		require.True(t, IsCode(order.Ship("TRK-1", ""), CodeInvalidArgument))
	})

	t.Run("paid order ships", func(t *testing.T) {
		order := newPaidOrder(t)
		require.NoError(t, order.Ship("TRK-1", "UPS"))
		assert.Equal(t, StatusShipped, order.Status())
		assert.Equal(t, "TRK-1", order.TrackingNumber())
		assert.Equal(t, "UPS", order.Carrier())
	})
}

func TestCancel(t *testing.T) {
	t.Run("before shipping succeeds", func(t *testing.T) {
		order := newPaidOrder(t)
		require.NoError(t, order.Cancel("changed mind"))
		assert.Equal(t, StatusCanceled, order.Status())
	})

	t.Run("empty reason rejected", func(t *testing.T) {
		order := newPaidOrder(t)
		require.True(t, IsCode(order.Cancel(""), CodeInvalidArgument))
	})

	t.Run("after shipping rejected", func(t *testing.T) {
		order := newPaidOrder(t)
		require.NoError(t, order.Ship("TRK-1", "UPS"))
		err := order.Cancel("too late")
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInvalidState))
	})
}

func TestTotalAmountRejectsMixedCurrencies(t *testing.T) {
	order, err := CreateOrder("alice", testAddress(), []OrderItem{testItem(t, "25", 2)})
	require.NoError(t, err)
	require.NoError(t, order.AddItem(uuid.New(), "imported", MustMoney("5", "EUR"), 1))

	_, err = order.TotalAmount()
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidArgument))
}

// Full lifecycle walkthrough: create, pay, ship, then a rejected cancel.
func TestOrderLifecycleScenario(t *testing.T) {
	item, err := NewOrderItem(uuid.New(), "P1", MustMoney("25", "USD"), 2)
	require.NoError(t, err)

	order, err := CreateOrder("alice", testAddress(), []OrderItem{item})
	require.NoError(t, err)
	total, err := order.TotalAmount()
	require.NoError(t, err)
	assert.True(t, total.Equal(MustMoney("50", "USD")))
	assert.Equal(t, 0, order.Version())

	require.NoError(t, order.MarkAsPaid(MustMoney("50", "USD"), "card", "tx-1"))
	assert.Equal(t, StatusPaid, order.Status())
	assert.Equal(t, 1, order.Version())

	require.NoError(t, order.Ship("T1", "C1"))
	assert.Equal(t, StatusShipped, order.Status())
	assert.Equal(t, 2, order.Version())

	err = order.Cancel("changed mind")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidState))
	assert.Equal(t, 2, order.Version())
}
