// Package gateway talks to the hosted payment provider. The provider
// reports outcomes asynchronously; nothing in this package ever decides
// an order's status.
package gateway

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrGatewayRejected    = errors.New("gateway rejected the order")
	ErrGatewayUnreachable = errors.New("gateway unreachable")
)

// RedirectParams is the advisory payload the provider appends to the
// browser's return URL after the hosted payment page. It is client
// visible and therefore untrusted: a display hint, never a state input.
type RedirectParams struct {
	OrderID   string
	PaymentID string
}

// ParseRedirect extracts the advisory parameters from a return-URL query.
func ParseRedirect(values url.Values) RedirectParams {
	return RedirectParams{
		OrderID:   strings.TrimSpace(values.Get("order_id")),
		PaymentID: strings.TrimSpace(values.Get("payment_id")),
	}
}
