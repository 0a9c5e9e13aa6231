package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"shabdashri/internal/models/db_models"
	"shabdashri/internal/models/response_models"
	"shabdashri/internal/repositories"
	"shabdashri/pkg/utils"
)

// webhookPayload is the slice of Razorpay's webhook envelope this core reads.
// The payment entity is preferred for the order id; order.paid events may
// only carry the order entity.
type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				Status           string `json:"status"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type WebhookServiceInterface interface {
	Process(ctx context.Context, rawBody []byte, signatureHeader string) (*response_models.WebhookAck, error)
}

// WebhookService is the single source of truth for success: a verified
// captured/paid event may move any non-success order straight to success,
// regardless of what the client reported.
type WebhookService struct {
	orders repositories.IPaymentOrderRepository
	secret string
}

func NewWebhookService(orders repositories.IPaymentOrderRepository, cfg RazorpayConfig) (WebhookServiceInterface, error) {
	if cfg.WebhookSecret == "" {
		return nil, utils.ErrMissingConfig
	}
	return &WebhookService{orders: orders, secret: cfg.WebhookSecret}, nil
}

func (w *WebhookService) Process(ctx context.Context, rawBody []byte, signatureHeader string) (*response_models.WebhookAck, error) {
	signatureHeader = strings.TrimSpace(signatureHeader)
	if signatureHeader == "" {
		return nil, utils.ErrWebhookSignatureMissing
	}

	// The HMAC covers the raw body bytes, computed before any parsing, so a
	// re-serialization canonicalization mismatch can never break verification.
	expected := utils.ComputeSignature(w.secret, string(rawBody))
	if !utils.SignaturesEqual(expected, signatureHeader) {
		return nil, utils.ErrWebhookSignatureInvalid
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, utils.ErrWebhookPayloadInvalid
	}

	status, ok := MapWebhookEvent(payload.Event)
	if !ok {
		// The gateway sends event types this system does not care about.
		return &response_models.WebhookAck{OK: true, Ignored: true}, nil
	}

	razorpayOrderID := payload.Payload.Payment.Entity.OrderID
	if razorpayOrderID == "" {
		razorpayOrderID = payload.Payload.Order.Entity.ID
	}
	if razorpayOrderID == "" {
		return nil, utils.ErrWebhookOrderMissing
	}

	update := repositories.PaymentOrderUpdate{
		Status: status,
		AuditPayload: jsonRaw(map[string]interface{}{
			"source": "gateway-webhook",
			"event":  payload.Event,
		}),
	}
	if paymentID := payload.Payload.Payment.Entity.ID; paymentID != "" {
		update.PaymentID = &paymentID
	}
	if status == db_models.PaymentStatusFailed {
		reason := reasonOrDefault(payload.Payload.Payment.Entity.ErrorDescription, EventPaymentFailed)
		update.FailureReason = &reason
	} else {
		update.ClearFailureReason = true
	}

	rows, err := w.orders.ApplyUpdateByRazorpayOrderID(ctx, razorpayOrderID, update)
	if err != nil {
		log.Printf("webhook: update failed for gateway order %s: %v", razorpayOrderID, err)
		return nil, utils.ErrUpdateFailed
	}
	if rows == 0 {
		// Either no local order (created out-of-band) or the success guard
		// held. A no-op, not an error.
		log.Printf("webhook: no row updated for gateway order %s (event %s)", razorpayOrderID, payload.Event)
	}

	return &response_models.WebhookAck{OK: true}, nil
}
