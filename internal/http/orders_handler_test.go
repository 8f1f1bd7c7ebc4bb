package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/orders"
)

var errTest = errors.New("backend unavailable")

// --- Mocks ---

type orderServiceMock struct {
	order      *domain.Order
	orderList  []*domain.Order
	err        error
	advanceErr error

	reconciled []domain.GatewayEvent
}

func (m *orderServiceMock) CreateOrder(ctx context.Context, cart *domain.Cart, info orders.CustomerInfo) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *orderServiceMock) ReconcilePayment(ctx context.Context, event domain.GatewayEvent) error {
	m.reconciled = append(m.reconciled, event)
	return m.err
}

func (m *orderServiceMock) AdvanceToReview(ctx context.Context, id uuid.UUID) error {
	return m.advanceErr
}

func (m *orderServiceMock) AdvanceToDelivered(ctx context.Context, id uuid.UUID) error {
	return m.advanceErr
}

func (m *orderServiceMock) GetOrder(ctx context.Context, id uuid.UUID, session *domain.Session) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *orderServiceMock) ListOrders(ctx context.Context, session *domain.Session, customerID string) ([]*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.orderList, nil
}

type cartServiceMock struct {
	cart *domain.Cart
	err  error

	cleared bool
}

func (m *cartServiceMock) GetCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *cartServiceMock) AddLine(ctx context.Context, customerID, productRef, title string, unitPrice float64, qty int) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *cartServiceMock) SetQuantity(ctx context.Context, customerID, productRef string, qty int) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *cartServiceMock) RemoveLine(ctx context.Context, customerID, productRef string) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *cartServiceMock) ClearCart(ctx context.Context, customerID string) error {
	m.cleared = true
	return m.err
}

type hostedURLerMock struct{}

func (hostedURLerMock) HostedCheckoutURL(ref string) string {
	return "https://pay.example.com/checkout/" + ref
}

// --- helpers ---

func withSession(r *http.Request, role domain.Role) *http.Request {
	session := &domain.Session{
		Token:      "tok-1",
		CustomerID: "cust-1",
		Name:       "Asha",
		Email:      "asha@example.com",
		Role:       role,
	}
	ctx := context.WithValue(r.Context(), ctxKeySession, session)
	return r.WithContext(ctx)
}

func withOrderID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("order_id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func sampleOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:              uuid.New(),
		GatewayOrderRef: "gw_order_abc",
		CustomerID:      "cust-1",
		CustomerName:    "Asha",
		CustomerEmail:   "asha@example.com",
		Items: []domain.OrderItem{
			{ProductRef: "kit-hydro-01", Title: "Hydroponics Kit", UnitPrice: 499.0, Quantity: 2},
		},
		TotalAmount:   998.0,
		Currency:      "INR",
		Status:        status,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
}

// --- GetOrder tests ---

func TestGetOrder_Success(t *testing.T) {
	order := sampleOrder(domain.OrderStatusConfirmed)
	mock := &orderServiceMock{order: order}
	handler := NewOrdersHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOrderID(withSession(httptest.NewRequest("GET", "/api/v1/orders/"+order.ID.String(), nil), domain.RoleCustomer), order.ID.String())

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response OrderResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID != order.ID.String() {
		t.Errorf("expected id '%s', got '%s'", order.ID, response.ID)
	}
	if response.Status != "CONFIRMED" {
		t.Errorf("expected status 'CONFIRMED', got '%s'", response.Status)
	}
	if response.Processing {
		t.Error("confirmed order must not report processing")
	}
}

func TestGetOrder_ProcessingWindow(t *testing.T) {
	// pending order with no payment ref yet: the post-redirect window
	order := sampleOrder(domain.OrderStatusPaymentPending)
	mock := &orderServiceMock{order: order}
	handler := NewOrdersHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOrderID(withSession(httptest.NewRequest("GET", "/api/v1/orders/"+order.ID.String(), nil), domain.RoleCustomer), order.ID.String())

	handler.GetOrder(recorder, request)

	var response OrderResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Processing {
		t.Error("pending order without payment ref should report processing")
	}
}

func TestGetOrder_InvalidID(t *testing.T) {
	handler := NewOrdersHandler(&orderServiceMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withOrderID(withSession(httptest.NewRequest("GET", "/api/v1/orders/not-a-uuid", nil), domain.RoleCustomer), "not-a-uuid")

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_order_id" {
		t.Errorf("expected 'invalid_order_id', got '%s'", response.Code)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	mock := &orderServiceMock{err: orders.ErrOrderNotFound}
	handler := NewOrdersHandler(mock, 5*time.Second)

	id := uuid.New().String()
	recorder := httptest.NewRecorder()
	request := withOrderID(withSession(httptest.NewRequest("GET", "/api/v1/orders/"+id, nil), domain.RoleCustomer), id)

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestGetOrder_Unauthorized(t *testing.T) {
	handler := NewOrdersHandler(&orderServiceMock{}, 5*time.Second)

	id := uuid.New().String()
	recorder := httptest.NewRecorder()
	request := withOrderID(httptest.NewRequest("GET", "/api/v1/orders/"+id, nil), id)
	// no session in context

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

// --- ListOrders tests ---

func TestListOrders_Success(t *testing.T) {
	mock := &orderServiceMock{orderList: []*domain.Order{sampleOrder(domain.OrderStatusConfirmed)}}
	handler := NewOrdersHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/api/v1/orders", nil), domain.RoleCustomer)

	handler.ListOrders(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response []OrderResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("expected 1 order, got %d", len(response))
	}
	if response[0].TotalAmount != 998.0 {
		t.Errorf("expected total_amount 998.0, got %f", response[0].TotalAmount)
	}
}

func TestListOrders_EmptyList(t *testing.T) {
	mock := &orderServiceMock{orderList: []*domain.Order{}}
	handler := NewOrdersHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/api/v1/orders", nil), domain.RoleCustomer)

	handler.ListOrders(recorder, request)

	// Must be a JSON array, not null
	body := recorder.Body.String()
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		t.Error("expected empty JSON array [], got null")
	}
}

// --- transition tests ---

func TestAdvanceToReview_Success(t *testing.T) {
	handler := NewOrdersHandler(&orderServiceMock{}, 5*time.Second)

	id := uuid.New().String()
	recorder := httptest.NewRecorder()
	request := withOrderID(withSession(httptest.NewRequest("POST", "/api/v1/orders/"+id+"/review", nil), domain.RolePartner), id)

	handler.AdvanceToReview(recorder, request)

	if recorder.Code != http.StatusNoContent {
		t.Errorf("expected %d, got %d", http.StatusNoContent, recorder.Code)
	}
}

func TestAdvanceToReview_WrongState(t *testing.T) {
	mock := &orderServiceMock{advanceErr: orders.ErrInvalidTransition}
	handler := NewOrdersHandler(mock, 5*time.Second)

	id := uuid.New().String()
	recorder := httptest.NewRecorder()
	request := withOrderID(withSession(httptest.NewRequest("POST", "/api/v1/orders/"+id+"/review", nil), domain.RolePartner), id)

	handler.AdvanceToReview(recorder, request)

	if recorder.Code != http.StatusConflict {
		t.Errorf("expected %d, got %d", http.StatusConflict, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_transition" {
		t.Errorf("expected 'invalid_transition', got '%s'", response.Code)
	}
}

func TestAdvanceToDelivered_NotFound(t *testing.T) {
	mock := &orderServiceMock{advanceErr: orders.ErrOrderNotFound}
	handler := NewOrdersHandler(mock, 5*time.Second)

	id := uuid.New().String()
	recorder := httptest.NewRecorder()
	request := withOrderID(withSession(httptest.NewRequest("POST", "/api/v1/orders/"+id+"/delivered", nil), domain.RoleAdmin), id)

	handler.AdvanceToDelivered(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

// --- Checkout tests ---

func checkoutBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(CheckoutRequestDTO{Name: "Asha", Email: "asha@example.com"})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestCheckout_Success(t *testing.T) {
	order := sampleOrder(domain.OrderStatusPaymentPending)
	carts := &cartServiceMock{cart: &domain.Cart{CustomerID: "cust-1", Lines: []domain.CartLine{
		{ProductRef: "kit-hydro-01", Title: "Hydroponics Kit", UnitPrice: 499.0, Quantity: 2},
	}}}
	svc := &orderServiceMock{order: order}

	handler := NewCheckoutHandler(carts, svc, hostedURLerMock{}, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/api/v1/checkout", checkoutBody(t)), domain.RoleCustomer)

	handler.Checkout(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}

	var response CheckoutResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.GatewayOrderRef != "gw_order_abc" {
		t.Errorf("expected gateway ref 'gw_order_abc', got '%s'", response.GatewayOrderRef)
	}
	if response.CheckoutURL != "https://pay.example.com/checkout/gw_order_abc" {
		t.Errorf("unexpected checkout url '%s'", response.CheckoutURL)
	}
	if response.Status != "PAYMENT_PENDING" {
		t.Errorf("expected status 'PAYMENT_PENDING', got '%s'", response.Status)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	carts := &cartServiceMock{cart: &domain.Cart{CustomerID: "cust-1"}}
	svc := &orderServiceMock{err: orders.ErrEmptyCart}

	handler := NewCheckoutHandler(carts, svc, hostedURLerMock{}, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/api/v1/checkout", checkoutBody(t)), domain.RoleCustomer)

	handler.Checkout(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "empty_cart" {
		t.Errorf("expected 'empty_cart', got '%s'", response.Code)
	}
}

func TestCheckout_GatewayDown(t *testing.T) {
	carts := &cartServiceMock{cart: &domain.Cart{CustomerID: "cust-1", Lines: []domain.CartLine{
		{ProductRef: "kit-hydro-01", UnitPrice: 499.0, Quantity: 1},
	}}}
	svc := &orderServiceMock{err: orders.ErrGatewayUnavailable}

	handler := NewCheckoutHandler(carts, svc, hostedURLerMock{}, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/api/v1/checkout", checkoutBody(t)), domain.RoleCustomer)

	handler.Checkout(recorder, request)

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("expected %d, got %d", http.StatusBadGateway, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "gateway_unavailable" {
		t.Errorf("expected 'gateway_unavailable', got '%s'", response.Code)
	}
}

func TestCheckout_InvalidCustomer(t *testing.T) {
	carts := &cartServiceMock{cart: &domain.Cart{CustomerID: "cust-1"}}
	svc := &orderServiceMock{err: orders.ErrInvalidCustomer}

	handler := NewCheckoutHandler(carts, svc, hostedURLerMock{}, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/api/v1/checkout", checkoutBody(t)), domain.RoleCustomer)

	handler.Checkout(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}
