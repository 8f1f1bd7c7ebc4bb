package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Gateway initiates a hosted payment for an order and returns the
// provider's order reference.
type Gateway interface {
	Initiate(ctx context.Context, orderRef uuid.UUID, amount float64, currency string) (string, error)
}

// CartClearer empties a customer's cart after a successful order creation.
type CartClearer interface {
	ClearCart(ctx context.Context, customerID string) error
}

type CustomerInfo struct {
	CustomerID string
	Name       string
	Email      string
}

type Service struct {
	repo     OrderRepository
	gateway  Gateway
	carts    CartClearer
	currency string
	sfg      singleflight.Group // Dedupes concurrent status polls for the same order
}

func NewService(repo OrderRepository, gateway Gateway, carts CartClearer, currency string) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		carts:    carts,
		currency: currency,
	}
}

// CreateOrder snapshots the cart into a new PAYMENT_PENDING order and
// registers it with the payment gateway. Either both the order row and
// the gateway reference exist afterwards, or neither does: a gateway
// failure deletes the row again before returning.
func (s *Service) CreateOrder(ctx context.Context, cart *domain.Cart, info CustomerInfo) (*domain.Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := validateCustomer(info); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:            uuid.New(),
		CustomerID:    info.CustomerID,
		CustomerName:  strings.TrimSpace(info.Name),
		CustomerEmail: strings.TrimSpace(info.Email),
		Items:         cart.Snapshot(),
		TotalAmount:   cart.Total(),
		Currency:      s.currency,
		Status:        domain.OrderStatusPaymentPending,
		PaymentStatus: domain.PaymentStatusPending,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	gatewayRef, err := s.gateway.Initiate(ctx, order.ID, order.TotalAmount, order.Currency)
	if err != nil {
		s.compensate(order.ID)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if err := s.repo.SetGatewayRef(ctx, order.ID, gatewayRef); err != nil {
		s.compensate(order.ID)
		return nil, fmt.Errorf("attach gateway ref: %w", err)
	}
	order.GatewayOrderRef = gatewayRef

	if errClear := s.carts.ClearCart(ctx, info.CustomerID); errClear != nil {
		// the order stands; a stale cart is only a cosmetic leftover
		log.Printf("failed to clear cart for customer %s: %v", info.CustomerID, errClear)
	}

	return order, nil
}

func (s *Service) compensate(id uuid.UUID) {
	ctx := context.Background()
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		log.Printf("compensating delete failed for order %s: %v", id, err)
	}
}

// ReconcilePayment applies a gateway outcome to the order it references.
// The gateway may redeliver events in any order, so every path that is
// not the first effective transition is a logged no-op.
func (s *Service) ReconcilePayment(ctx context.Context, event domain.GatewayEvent) error {
	order, err := s.repo.GetOrderByGatewayRef(ctx, event.GatewayOrderRef)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return fmt.Errorf("gateway ref %s: %w", event.GatewayOrderRef, ErrOrderNotFound)
		}
		return fmt.Errorf("load order for gateway ref %s: %w", event.GatewayOrderRef, err)
	}

	if order.Status != domain.OrderStatusPaymentPending {
		log.Printf("duplicate gateway event for order %s (status %s), skipping", order.ID, order.Status)
		return nil
	}

	target := domain.OrderStatusConfirmed
	payment := domain.PaymentStatusPaid
	var paymentRef *string
	if event.Outcome == domain.GatewayOutcomeSuccess {
		ref := event.PaymentRef
		paymentRef = &ref
	} else {
		target = domain.OrderStatusPaymentFailed
		payment = domain.PaymentStatusFailed
	}

	applied, err := s.repo.UpdateStatus(ctx, order.ID, domain.OrderStatusPaymentPending, target, payment, paymentRef)
	if err != nil {
		return fmt.Errorf("apply gateway event to order %s: %w", order.ID, err)
	}
	if !applied {
		// another delivery of this event won the compare-and-set
		log.Printf("concurrent gateway event already applied to order %s, skipping", order.ID)
		return nil
	}

	log.Printf("order %s moved to %s by gateway event", order.ID, target)
	return nil
}

// AdvanceToReview moves a confirmed order into fulfilment review.
func (s *Service) AdvanceToReview(ctx context.Context, id uuid.UUID) error {
	return s.advance(ctx, id, domain.OrderStatusPendingReview)
}

// AdvanceToDelivered closes out an order that passed review.
func (s *Service) AdvanceToDelivered(ctx context.Context, id uuid.UUID) error {
	return s.advance(ctx, id, domain.OrderStatusDelivered)
}

func (s *Service) advance(ctx context.Context, id uuid.UUID, target domain.OrderStatus) error {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.CanTransitionTo(order.Status, target) {
		return fmt.Errorf("%w: %s -> %s for order %s", ErrInvalidTransition, order.Status, target, id)
	}

	applied, err := s.repo.UpdateStatus(ctx, id, order.Status, target, order.PaymentStatus, nil)
	if err != nil {
		return fmt.Errorf("advance order %s to %s: %w", id, target, err)
	}
	if !applied {
		return fmt.Errorf("%w: order %s changed concurrently", ErrInvalidTransition, id)
	}
	return nil
}

// GetOrder fetches one order for the given session. Customers can only
// see their own orders; a foreign order reads as not found rather than
// as forbidden, so ownership is not leaked.
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID, session *domain.Session) (*domain.Order, error) {
	v, err, _ := s.sfg.Do(id.String(), func() (interface{}, error) {
		return s.repo.GetOrderByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	order := v.(*domain.Order)

	if !session.Role.IsStaff() && order.CustomerID != session.CustomerID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns the session's own orders, or any customer's orders
// for staff when customerID is set.
func (s *Service) ListOrders(ctx context.Context, session *domain.Session, customerID string) ([]*domain.Order, error) {
	if !session.Role.IsStaff() || customerID == "" {
		customerID = session.CustomerID
	}
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

func validateCustomer(info CustomerInfo) error {
	name := strings.TrimSpace(info.Name)
	email := strings.TrimSpace(info.Email)
	if info.CustomerID == "" || name == "" {
		return ErrInvalidCustomer
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidCustomer
	}
	return nil
}
