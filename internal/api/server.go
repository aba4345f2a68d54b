// Package api exposes the order service over HTTP. This layer is plumbing:
// it shapes requests and responses around the command and query services and
// owns no business rules.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/luuthuong/go-ecommerce-order/internal/service"
)

// Server handles the order HTTP API.
type Server struct {
	orders  *service.OrderService
	queries *service.QueryService
	logger  *slog.Logger
	router  chi.Router
}

// NewServer builds the router.
func NewServer(orders *service.OrderService, queries *service.QueryService, logger *slog.Logger) *Server {
	s := &Server{orders: orders, queries: queries, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", s.handleCreateOrder)
		r.Get("/", s.handleListOrders)
		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", s.handleGetOrder)
			r.Post("/items", s.handleAddItem)
			r.Put("/shipping-address", s.handleSetShippingAddress)
			r.Post("/payments", s.handlePayOrder)
			r.Post("/ship", s.handleShipOrder)
			r.Post("/cancel", s.handleCancelOrder)
			r.Get("/events", s.handleGetOrderEvents)
		})
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
