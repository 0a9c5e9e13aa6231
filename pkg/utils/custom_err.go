package utils

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("payment order not found")
	ErrOrderMismatch    = errors.New("gateway order mismatch")
	ErrInvalidAmount    = errors.New("invalid product amount")
	ErrBelowMinimum     = errors.New("amount below gateway minimum")
	ErrSignatureFailed  = errors.New("signature verification failed")
	ErrProofRequired    = errors.New("payment id and signature required for checkout_success")
	ErrMissingConfig    = errors.New("gateway configuration missing")
	ErrStoreOrderFailed = errors.New("unable to store payment order")
	ErrUpdateFailed     = errors.New("unable to update payment status")
	ErrDatabaseError    = errors.New("database error")

	ErrWebhookSignatureMissing = errors.New("missing webhook signature")
	ErrWebhookSignatureInvalid = errors.New("invalid webhook signature")
	ErrWebhookPayloadInvalid   = errors.New("invalid webhook payload")
	ErrWebhookOrderMissing     = errors.New("no order id in webhook payload")
)

// GatewayError carries the processor's own human-readable description
// through to the caller on a non-2xx upstream response.
type GatewayError struct {
	Description string
}

func (e *GatewayError) Error() string {
	return "gateway error: " + e.Description
}
