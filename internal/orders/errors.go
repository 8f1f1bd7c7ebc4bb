package orders

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to order")
	ErrInvalidCustomer    = errors.New("customer name or email is malformed")
	ErrInvalidTransition  = errors.New("illegal transition of order status")
	ErrGatewayUnavailable = errors.New("payment gateway rejected or unreachable")
)
