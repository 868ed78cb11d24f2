package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for client-correctable failures. Handlers map these to 4xx
// responses; anything else out of a service is a 5xx.
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrQuantityInvalid  = errors.New("quantity must be a positive integer")
	ErrMetadataTooLarge = errors.New("purchase descriptor exceeds gateway metadata limit")
)

// GatewayError wraps a failure from the external payment gateway: a rejected
// request, a non-2xx API response, or a timed-out call. It carries the
// gateway's message and is never retried by this service.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
