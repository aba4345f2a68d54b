package domain

import "github.com/google/uuid"

// OrderItem is a single line item on an order.
type OrderItem struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	UnitPrice   Money     `json:"unitPrice"`
	Quantity    int       `json:"quantity"`
}

// NewOrderItem validates and builds a line item.
func NewOrderItem(productID uuid.UUID, productName string, unitPrice Money, quantity int) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, NewError(CodeInvalidArgument, "product id is required")
	}
	if productName == "" {
		return OrderItem{}, NewError(CodeInvalidArgument, "product name is required")
	}
	if !unitPrice.IsPositive() {
		return OrderItem{}, NewError(CodeInvalidArgument, "unit price must be positive")
	}
	if quantity <= 0 {
		return OrderItem{}, NewError(CodeInvalidArgument, "quantity must be positive")
	}
	return OrderItem{
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	}, nil
}

// TotalPrice is the line total, unit price times quantity.
func (i OrderItem) TotalPrice() Money {
	return i.UnitPrice.MulInt(i.Quantity)
}
