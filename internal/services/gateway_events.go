package services

import "shabdashri/internal/models/db_models"

// Client-reported checkout outcomes.
const (
	EventCheckoutSuccess   = "checkout_success"
	EventPaymentFailed     = "payment_failed"
	EventCheckoutDismissed = "checkout_dismissed"
)

// Gateway webhook event names this core acts on. Everything else is
// acknowledged and ignored.
const (
	WebhookPaymentCaptured   = "payment.captured"
	WebhookOrderPaid         = "order.paid"
	WebhookPaymentFailed     = "payment.failed"
	WebhookPaymentAuthorized = "payment.authorized"
)

// MapWebhookEvent is the single event-to-status mapping shared by the webhook
// path and the tests, so client-side and webhook verification cannot drift.
func MapWebhookEvent(event string) (db_models.PaymentStatus, bool) {
	switch event {
	case WebhookPaymentCaptured, WebhookOrderPaid:
		return db_models.PaymentStatusSuccess, true
	case WebhookPaymentFailed:
		return db_models.PaymentStatusFailed, true
	case WebhookPaymentAuthorized:
		return db_models.PaymentStatusClientAuthorized, true
	}
	return "", false
}

// SignatureMessage is the exact byte layout Razorpay signs for checkout
// callbacks: "<orderId>|<paymentId>".
func SignatureMessage(razorpayOrderID, razorpayPaymentID string) string {
	return razorpayOrderID + "|" + razorpayPaymentID
}
