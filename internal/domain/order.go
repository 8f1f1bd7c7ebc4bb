package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPaymentPending OrderStatus = "PAYMENT_PENDING"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusPaymentFailed  OrderStatus = "PAYMENT_FAILED"
	OrderStatusPendingReview  OrderStatus = "PENDING_REVIEW"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusPaymentFailed
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// transitions lists the allowed next statuses for each status.
// Terminal statuses have no entries, so nothing can move an order
// out of DELIVERED or PAYMENT_FAILED.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPaymentPending: {OrderStatusConfirmed, OrderStatusPaymentFailed},
	OrderStatusConfirmed:      {OrderStatusPendingReview},
	OrderStatusPendingReview:  {OrderStatusDelivered},
}

func CanTransitionTo(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// OrderItem is a snapshot of a cart line at order creation time.
// Title and price are copied so historical orders stay intact when
// the catalog changes.
type OrderItem struct {
	ProductRef string  `json:"product_ref"`
	Title      string  `json:"title"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

type Order struct {
	ID              uuid.UUID
	GatewayOrderRef string
	CustomerID      string
	CustomerName    string
	CustomerEmail   string
	Items           []OrderItem
	TotalAmount     float64
	Currency        string
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	PaymentRef      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GatewayEventOutcome is what the payment provider reports for an order.
type GatewayEventOutcome string

const (
	GatewayOutcomeSuccess GatewayEventOutcome = "success"
	GatewayOutcomeFailure GatewayEventOutcome = "failure"
)

// GatewayEvent is the authoritative payment notification, delivered
// out-of-band by the provider (webhook or message stream). The browser
// redirect carries a lookalike payload but is advisory only.
type GatewayEvent struct {
	GatewayOrderRef string
	Outcome         GatewayEventOutcome
	PaymentRef      string
}
