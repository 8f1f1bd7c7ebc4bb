package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderService is the slice of the order service the handlers need.
type OrderService interface {
	CreateOrder(ctx context.Context, cart *domain.Cart, info orders.CustomerInfo) (*domain.Order, error)
	ReconcilePayment(ctx context.Context, event domain.GatewayEvent) error
	AdvanceToReview(ctx context.Context, id uuid.UUID) error
	AdvanceToDelivered(ctx context.Context, id uuid.UUID) error
	GetOrder(ctx context.Context, id uuid.UUID, session *domain.Session) (*domain.Order, error)
	ListOrders(ctx context.Context, session *domain.Session, customerID string) ([]*domain.Order, error)
}

type OrdersHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewOrdersHandler(svc OrderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{orders: svc, timeout: timeout}
}

type OrderResponseDTO struct {
	ID              string             `json:"id"`
	GatewayOrderRef string             `json:"gateway_order_ref,omitempty"`
	CustomerName    string             `json:"customer_name"`
	Items           []domain.OrderItem `json:"items"`
	TotalAmount     float64            `json:"total_amount"`
	Currency        string             `json:"currency"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"payment_status"`
	PaymentRef      *string            `json:"payment_ref,omitempty"`
	// Processing marks the window between the redirect back from the
	// hosted payment page and the authoritative gateway event. It is a
	// normal state, not a failure; clients poll until it clears.
	Processing bool      `json:"processing"`
	CreatedAt  time.Time `json:"created_at"`
}

func orderResponse(order *domain.Order) OrderResponseDTO {
	return OrderResponseDTO{
		ID:              order.ID.String(),
		GatewayOrderRef: order.GatewayOrderRef,
		CustomerName:    order.CustomerName,
		Items:           order.Items,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		PaymentRef:      order.PaymentRef,
		Processing:      order.Status == domain.OrderStatusPaymentPending && order.PaymentRef == nil,
		CreatedAt:       order.CreatedAt,
	}
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.orders.GetOrder(ctx, orderID, session)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not load order")
		return
	}

	respondJSON(w, http.StatusOK, orderResponse(order))
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	customerID := r.URL.Query().Get("customer_id")

	listed, err := h.orders.ListOrders(ctx, session, customerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not list orders")
		return
	}

	response := make([]OrderResponseDTO, len(listed))
	for i, order := range listed {
		response[i] = orderResponse(order)
	}
	respondJSON(w, http.StatusOK, response)
}

type TransitionRequestDTO struct{}

func (h *OrdersHandler) AdvanceToReview(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.orders.AdvanceToReview)
}

func (h *OrdersHandler) AdvanceToDelivered(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, h.orders.AdvanceToDelivered)
}

func (h *OrdersHandler) advance(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	if err := fn(ctx, orderID); err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		case errors.Is(err, orders.ErrInvalidTransition):
			respondError(w, http.StatusConflict, "invalid_transition", "order is not in the required state")
		default:
			respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not update order")
		}
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// CheckoutRequestDTO carries the customer's contact snapshot. Identity
// comes from the session, never from the body.
type CheckoutRequestDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckoutResponseDTO struct {
	OrderID         string  `json:"order_id"`
	GatewayOrderRef string  `json:"gateway_order_ref"`
	CheckoutURL     string  `json:"checkout_url"`
	TotalAmount     float64 `json:"total_amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
}

// HostedURLer turns a gateway reference into the hosted payment page URL.
type HostedURLer interface {
	HostedCheckoutURL(gatewayRef string) string
}

type CheckoutHandler struct {
	carts   CartService
	orders  OrderService
	hosted  HostedURLer
	timeout time.Duration
}

func NewCheckoutHandler(carts CartService, svc OrderService, hosted HostedURLer, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, orders: svc, hosted: hosted, timeout: timeout}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.GetCart(ctx, session.CustomerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}

	order, err := h.orders.CreateOrder(ctx, cart, orders.CustomerInfo{
		CustomerID: session.CustomerID,
		Name:       req.Name,
		Email:      req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", "cart has no lines to order")
		case errors.Is(err, orders.ErrInvalidCustomer):
			respondError(w, http.StatusBadRequest, "invalid_customer", "name or email is malformed")
		case errors.Is(err, orders.ErrGatewayUnavailable):
			respondError(w, http.StatusBadGateway, "gateway_unavailable", "payment gateway did not accept the order, please retry")
		default:
			respondError(w, http.StatusInternalServerError, "checkout_failed", "could not create order")
		}
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:         order.ID.String(),
		GatewayOrderRef: order.GatewayOrderRef,
		CheckoutURL:     h.hosted.HostedCheckoutURL(order.GatewayOrderRef),
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		Status:          string(order.Status),
	})
}
