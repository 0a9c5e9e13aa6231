package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError writes the single error shape every endpoint uses. Nothing
// internal (stack traces, secrets) goes into the body; the trace id rides on
// the X-Trace-ID response header set by the middleware.
func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func HandleServiceError(c *gin.Context, err error) {
	var gatewayErr *GatewayError

	switch {
	case errors.Is(err, ErrProductNotFound):
		RespondError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrOrderNotFound):
		RespondError(c, http.StatusNotFound, "Payment order not found")
	case errors.Is(err, ErrOrderMismatch):
		RespondError(c, http.StatusBadRequest, "Razorpay order mismatch")
	case errors.Is(err, ErrInvalidAmount):
		RespondError(c, http.StatusBadRequest, "Invalid product amount")
	case errors.Is(err, ErrBelowMinimum):
		RespondError(c, http.StatusBadRequest, "Minimum payable amount is Rs 10 for gateway checkout.")
	case errors.Is(err, ErrSignatureFailed):
		RespondError(c, http.StatusBadRequest, "Signature verification failed")
	case errors.Is(err, ErrProofRequired):
		RespondError(c, http.StatusBadRequest, "gatewayPaymentId and gatewaySignature are required for checkout_success")
	case errors.Is(err, ErrWebhookSignatureMissing):
		RespondError(c, http.StatusUnauthorized, "Missing webhook signature")
	case errors.Is(err, ErrWebhookSignatureInvalid):
		RespondError(c, http.StatusUnauthorized, "Invalid webhook signature")
	case errors.Is(err, ErrWebhookPayloadInvalid):
		RespondError(c, http.StatusBadRequest, "Invalid webhook payload")
	case errors.Is(err, ErrWebhookOrderMissing):
		RespondError(c, http.StatusBadRequest, "No order id in webhook payload")
	case errors.As(err, &gatewayErr):
		RespondError(c, http.StatusBadGateway, gatewayErr.Description)
	case errors.Is(err, ErrMissingConfig):
		log.Printf("[trace_id=%s] Configuration error: %v", traceID(c), err)
		RespondError(c, http.StatusInternalServerError, "Gateway configuration missing")
	case errors.Is(err, ErrStoreOrderFailed):
		log.Printf("[trace_id=%s] Persistence error: %v", traceID(c), err)
		RespondError(c, http.StatusInternalServerError, "Unable to store payment order")
	case errors.Is(err, ErrUpdateFailed):
		log.Printf("[trace_id=%s] Persistence error: %v", traceID(c), err)
		RespondError(c, http.StatusInternalServerError, "Unable to update payment status")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("[trace_id=%s] Database error: %v", traceID(c), err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("[trace_id=%s] Unknown error: %v", traceID(c), err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
