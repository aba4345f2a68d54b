package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luuthuong/go-ecommerce-order/internal/domain"
	"github.com/luuthuong/go-ecommerce-order/internal/projection"
)

type itemPayload struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Currency    string          `json:"currency"`
	Quantity    int             `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName    string         `json:"customerName"`
	ShippingAddress domain.Address `json:"shippingAddress"`
	Items           []itemPayload  `json:"items"`
}

type payOrderRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId"`
}

type shipOrderRequest struct {
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type orderItemResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	CustomerName    string              `json:"customerName"`
	OrderDate       time.Time           `json:"orderDate"`
	Status          string              `json:"status"`
	ShippingAddress domain.Address      `json:"shippingAddress"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	PaymentDate     *time.Time          `json:"paymentDate,omitempty"`
	ShippingDate    *time.Time          `json:"shippingDate,omitempty"`
	TrackingNumber  string              `json:"trackingNumber,omitempty"`
	Carrier         string              `json:"carrier,omitempty"`
	Version         int                 `json:"version"`
	Items           []orderItemResponse `json:"items"`
}

type orderSummaryResponse struct {
	ID           uuid.UUID       `json:"id"`
	CustomerName string          `json:"customerName"`
	OrderDate    time.Time       `json:"orderDate"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	ItemCount    int             `json:"itemCount"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, p := range req.Items {
		item, err := toOrderItem(p)
		if err != nil {
			writeError(w, err)
			return
		}
		items = append(items, item)
	}
	id, err := s.orders.CreateOrder(r.Context(), req.CustomerName, req.ShippingAddress, items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"orderId": id})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req itemPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := toOrderItem(req)
	if err != nil {
		writeError(w, err)
		return
	}
	err = s.orders.AddItem(r.Context(), orderID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleSetShippingAddress(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var address domain.Address
	if err := decodeBody(r, &address); err != nil {
		writeError(w, err)
		return
	}
	if err := s.orders.SetShippingAddress(r.Context(), orderID, address); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handlePayOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req payOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := domain.NewMoney(req.Amount, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	err = s.orders.PayOrder(r.Context(), orderID, amount, req.PaymentMethod, req.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleShipOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req shipOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.orders.ShipOrder(r.Context(), orderID, req.TrackingNumber, req.Carrier); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.orders.CancelOrder(r.Context(), orderID, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := s.queries.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		summaries []projection.OrderSummary
		err       error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		summaries, err = s.queries.ListOrdersByStatus(r.Context(), status)
	} else {
		summaries, err = s.queries.ListOrders(r.Context(), r.URL.Query().Get("customer"))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]orderSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, orderSummaryResponse{
			ID:           sum.ID,
			CustomerName: sum.CustomerName,
			OrderDate:    sum.OrderDate,
			Status:       sum.Status,
			TotalAmount:  sum.TotalAmount,
			ItemCount:    sum.ItemCount,
		})
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleGetOrderEvents(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := s.queries.GetOrderEvents(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, history)
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		return uuid.Nil, domain.WrapError(domain.CodeInvalidArgument, "invalid order id", err)
	}
	return id, nil
}

func decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return domain.WrapError(domain.CodeInvalidArgument, "invalid request body", err)
	}
	return nil
}

func toOrderItem(p itemPayload) (domain.OrderItem, error) {
	price, err := domain.NewMoney(p.UnitPrice, p.Currency)
	if err != nil {
		return domain.OrderItem{}, err
	}
	return domain.NewOrderItem(p.ProductID, p.ProductName, price, p.Quantity)
}

func toOrderResponse(o *projection.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice,
		})
	}
	return orderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		OrderDate:       o.OrderDate,
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		TotalAmount:     o.TotalAmount,
		PaymentDate:     o.PaymentDate,
		ShippingDate:    o.ShippingDate,
		TrackingNumber:  o.TrackingNumber,
		Carrier:         o.Carrier,
		Version:         o.Version,
		Items:           items,
	}
}
