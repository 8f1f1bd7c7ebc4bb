package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to confirmed", OrderStatusPaymentPending, OrderStatusConfirmed, true},
		{"pending to failed", OrderStatusPaymentPending, OrderStatusPaymentFailed, true},
		{"confirmed to review", OrderStatusConfirmed, OrderStatusPendingReview, true},
		{"review to delivered", OrderStatusPendingReview, OrderStatusDelivered, true},
		{"pending to delivered skips states", OrderStatusPaymentPending, OrderStatusDelivered, false},
		{"confirmed to delivered skips review", OrderStatusConfirmed, OrderStatusDelivered, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusPendingReview, false},
		{"failed is terminal", OrderStatusPaymentFailed, OrderStatusConfirmed, false},
		{"confirmed cannot go back", OrderStatusConfirmed, OrderStatusPaymentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusPaymentFailed.IsTerminal())
	assert.False(t, OrderStatusPaymentPending.IsTerminal())
	assert.False(t, OrderStatusConfirmed.IsTerminal())
	assert.False(t, OrderStatusPendingReview.IsTerminal())
}

func TestNoSequenceLeavesTerminalState(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPaymentPending,
		OrderStatusConfirmed,
		OrderStatusPaymentFailed,
		OrderStatusPendingReview,
		OrderStatusDelivered,
	}
	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusPaymentFailed} {
		for _, to := range all {
			assert.False(t, CanTransitionTo(terminal, to),
				"terminal %s must not transition to %s", terminal, to)
		}
	}
}
