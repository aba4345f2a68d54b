package domain

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusPaid       OrderStatus = "Paid"
	StatusShipped    OrderStatus = "Shipped"
	// StatusDelivered is a terminal state no in-scope command reaches; it is
	// defined so cancellation rules and status queries can refer to it.
	StatusDelivered OrderStatus = "Delivered"
	StatusCanceled  OrderStatus = "Canceled"
)

func (s OrderStatus) String() string { return string(s) }

// ParseStatus maps a status string (query filter input) to an OrderStatus.
func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusProcessing, StatusPaid, StatusShipped, StatusDelivered, StatusCanceled:
		return OrderStatus(s), nil
	}
	return "", Errorf(CodeInvalidArgument, "unknown order status %q", s)
}
