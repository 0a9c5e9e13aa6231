package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"

	"shabdashri/internal/models/db_models"
	"shabdashri/internal/models/request_models"
	"shabdashri/internal/models/response_models"
	"shabdashri/internal/repositories"
	"shabdashri/pkg/utils"
)

const (
	defaultMinAmountPaise = 1000 // gateways refuse sub-minimum charges
	defaultCurrency       = "INR"
	defaultMerchantName   = "Shabdashri"
	receiptPrefix         = "shb"
)

type PaymentServiceInterface interface {
	CreateOrder(ctx context.Context, productID string) (*response_models.CreateOrderResponse, error)
	SubmitClientOutcome(ctx context.Context, req request_models.SubmitPaymentRequest) (*response_models.SubmitPaymentResponse, error)
	GetStatus(ctx context.Context, paymentToken string) (*response_models.PaymentStatusResponse, error)
}

type PaymentService struct {
	orders   repositories.IPaymentOrderRepository
	products repositories.IProductRepository
	gateway  RazorpayGateway
	cfg      RazorpayConfig
}

func NewPaymentService(
	orders repositories.IPaymentOrderRepository,
	products repositories.IProductRepository,
	gateway RazorpayGateway,
	cfg RazorpayConfig,
) (PaymentServiceInterface, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, utils.ErrMissingConfig
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}
	if cfg.MerchantName == "" {
		cfg.MerchantName = defaultMerchantName
	}
	if cfg.MinAmountPaise <= 0 {
		cfg.MinAmountPaise = defaultMinAmountPaise
	}

	return &PaymentService{
		orders:   orders,
		products: products,
		gateway:  gateway,
		cfg:      cfg,
	}, nil
}

// CreateOrder validates the product price, creates a gateway order and
// persists the local row bound to a fresh public token. The receipt string is
// traceability, not idempotency: repeated calls create new gateway orders.
func (s *PaymentService) CreateOrder(ctx context.Context, productID string) (*response_models.CreateOrderResponse, error) {
	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		log.Printf("create-order: product lookup failed: %v", err)
		return nil, utils.ErrDatabaseError
	}
	if product == nil {
		return nil, utils.ErrProductNotFound
	}

	amount := product.Price
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return nil, utils.ErrInvalidAmount
	}
	amountPaise := int64(math.Round(amount * 100))
	if amountPaise < s.cfg.MinAmountPaise {
		return nil, utils.ErrBelowMinimum
	}

	receipt := fmt.Sprintf("%s_%d_%s", receiptPrefix, time.Now().UnixMilli(), shortID(product.ID.String()))
	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountPaise, s.cfg.Currency, receipt, map[string]interface{}{
		"product_id":    product.ID.String(),
		"product_title": product.Title,
	})
	if err != nil {
		return nil, err
	}

	order := &db_models.PaymentOrder{
		ProductID:       product.ID.String(),
		ProductTitle:    product.Title,
		Amount:          amount,
		AmountPaise:     amountPaise,
		Currency:        s.cfg.Currency,
		RazorpayOrderID: gatewayOrder.ID,
		Status:          db_models.PaymentStatusCreated,
		GatewayPayload: jsonRaw(map[string]interface{}{
			"source":         "create-order",
			"razorpay_order": gatewayOrder.Raw,
		}),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		// The gateway order is orphaned at this point; acceptable, it is
		// never charged without further client action.
		log.Printf("create-order: insert failed for gateway order %s: %v", gatewayOrder.ID, err)
		return nil, utils.ErrStoreOrderFailed
	}

	return &response_models.CreateOrderResponse{
		PaymentOrderID:   order.ID.String(),
		PaymentToken:     order.PublicToken,
		GatewayOrderID:   gatewayOrder.ID,
		Amount:           amount,
		AmountMinorUnits: amountPaise,
		Currency:         s.cfg.Currency,
		CheckoutKeyID:    s.cfg.KeyID,
		ProductTitle:     product.Title,
		MerchantName:     s.cfg.MerchantName,
	}, nil
}

// SubmitClientOutcome applies a client-reported checkout result. A success
// claim is only honored with a signature the legitimate gateway could have
// produced for this exact order+payment pair; failure and dismissal claims
// need no proof since neither can be exploited to fake success.
func (s *PaymentService) SubmitClientOutcome(ctx context.Context, req request_models.SubmitPaymentRequest) (*response_models.SubmitPaymentResponse, error) {
	token := strings.TrimSpace(req.PaymentToken)
	razorpayOrderID := strings.TrimSpace(req.OrderID())

	existing, err := s.orders.GetByPublicToken(ctx, token)
	if err != nil {
		log.Printf("submit-payment: order lookup failed: %v", err)
		return nil, utils.ErrDatabaseError
	}
	if existing == nil {
		return nil, utils.ErrOrderNotFound
	}
	if existing.RazorpayOrderID != razorpayOrderID {
		return nil, utils.ErrOrderMismatch
	}

	event := req.GatewayEvent
	if event == "" {
		event = EventCheckoutSuccess
	}

	switch event {
	case EventCheckoutDismissed:
		reason := reasonOrDefault(req.FailureReason, EventCheckoutDismissed)
		return s.applyClientStatus(ctx, existing, repositories.PaymentOrderUpdate{
			Status:        db_models.PaymentStatusCancelled,
			FailureReason: &reason,
			AuditPayload:  submitAudit(event),
		})

	case EventPaymentFailed:
		reason := reasonOrDefault(req.FailureReason, EventPaymentFailed)
		update := repositories.PaymentOrderUpdate{
			Status:        db_models.PaymentStatusFailed,
			FailureReason: &reason,
			AuditPayload:  submitAudit(event),
		}
		if paymentID := strings.TrimSpace(req.PaymentID()); paymentID != "" {
			update.PaymentID = &paymentID
		}
		return s.applyClientStatus(ctx, existing, update)

	default:
		return s.verifyCheckoutSuccess(ctx, existing, req, event)
	}
}

func (s *PaymentService) verifyCheckoutSuccess(ctx context.Context, existing *db_models.PaymentOrder, req request_models.SubmitPaymentRequest, event string) (*response_models.SubmitPaymentResponse, error) {
	paymentID := strings.TrimSpace(req.PaymentID())
	signature := strings.TrimSpace(req.Signature())
	if paymentID == "" || signature == "" {
		return nil, utils.ErrProofRequired
	}

	expected := utils.ComputeSignature(s.cfg.KeySecret, SignatureMessage(existing.RazorpayOrderID, paymentID))
	if !utils.SignaturesEqual(expected, signature) {
		reason := "signature_verification_failed"
		if _, uerr := s.orders.ApplyUpdate(ctx, existing.ID, repositories.PaymentOrderUpdate{
			Status:        db_models.PaymentStatusFailed,
			FailureReason: &reason,
			PaymentID:     &paymentID,
			Signature:     &signature,
			AuditPayload:  submitAudit(event),
		}); uerr != nil {
			log.Printf("submit-payment: failed to record signature mismatch for %s: %v", existing.RazorpayOrderID, uerr)
		}
		return nil, utils.ErrSignatureFailed
	}

	// Never downgrade an already-confirmed success.
	next := db_models.PaymentStatusClientAuthorized
	if existing.Status == db_models.PaymentStatusSuccess {
		next = db_models.PaymentStatusSuccess
	}
	return s.applyClientStatus(ctx, existing, repositories.PaymentOrderUpdate{
		Status:             next,
		PaymentID:          &paymentID,
		Signature:          &signature,
		ClearFailureReason: true,
		AuditPayload:       submitAudit(event),
	})
}

// applyClientStatus funnels every client-submission write through the guarded
// update. A skipped write means the row reached success concurrently, which
// is what the caller gets told.
func (s *PaymentService) applyClientStatus(ctx context.Context, existing *db_models.PaymentOrder, update repositories.PaymentOrderUpdate) (*response_models.SubmitPaymentResponse, error) {
	applied, err := s.orders.ApplyUpdate(ctx, existing.ID, update)
	if err != nil {
		log.Printf("submit-payment: update failed for %s: %v", existing.RazorpayOrderID, err)
		return nil, utils.ErrUpdateFailed
	}

	status := update.Status
	if !applied {
		status = db_models.PaymentStatusSuccess
	}
	return &response_models.SubmitPaymentResponse{Status: string(status)}, nil
}

// GetStatus answers the client poll. Terminal orders take the cheap path;
// pending ones are reconciled against the gateway's authoritative payment
// list first, so subsequent polls see the cheap path.
func (s *PaymentService) GetStatus(ctx context.Context, paymentToken string) (*response_models.PaymentStatusResponse, error) {
	order, err := s.orders.GetByPublicToken(ctx, strings.TrimSpace(paymentToken))
	if err != nil {
		log.Printf("payment-status: order lookup failed: %v", err)
		return nil, utils.ErrDatabaseError
	}
	if order == nil {
		return nil, utils.ErrOrderNotFound
	}

	if !order.Status.Terminal() {
		order = s.reconcile(ctx, order)
	}

	return &response_models.PaymentStatusResponse{
		Status:        string(order.Status),
		FailureReason: order.FailureReason,
		Amount:        order.Amount,
		ProductTitle:  order.ProductTitle,
		UpdatedAt:     order.UpdatedAt,
	}, nil
}

// reconcile queries the gateway's payment list for the order and maps it by
// priority: captured wins, then authorized, then failed. A gateway lookup
// failure degrades to the stored state; the client polls again.
func (s *PaymentService) reconcile(ctx context.Context, order *db_models.PaymentOrder) *db_models.PaymentOrder {
	payments, err := s.gateway.ListOrderPayments(ctx, order.RazorpayOrderID)
	if err != nil {
		log.Printf("reconcile: payment lookup failed for %s: %v", order.RazorpayOrderID, err)
		return order
	}

	var captured, authorized, failed *GatewayPayment
	for i := range payments {
		p := &payments[i]
		switch {
		case p.Captured || p.Status == "captured":
			if captured == nil {
				captured = p
			}
		case p.Status == "authorized":
			if authorized == nil {
				authorized = p
			}
		case p.Status == "failed":
			if failed == nil {
				failed = p
			}
		}
	}

	update := repositories.PaymentOrderUpdate{AuditPayload: jsonRaw(map[string]interface{}{"source": "reconcile"})}
	var reason *string
	switch {
	case captured != nil:
		update.Status = db_models.PaymentStatusSuccess
		update.PaymentID = &captured.ID
		update.ClearFailureReason = true
	case authorized != nil:
		update.Status = db_models.PaymentStatusClientAuthorized
		update.PaymentID = &authorized.ID
	case failed != nil:
		update.Status = db_models.PaymentStatusFailed
		update.PaymentID = &failed.ID
		r := reasonOrDefault(failed.ErrorDescription, EventPaymentFailed)
		reason = &r
		update.FailureReason = reason
	default:
		return order
	}
	if update.Status == order.Status {
		return order
	}

	applied, err := s.orders.ApplyUpdate(ctx, order.ID, update)
	if err != nil {
		log.Printf("reconcile: update failed for %s: %v", order.RazorpayOrderID, err)
		return order
	}
	if !applied {
		// Row reached success under us; report stored truth.
		if fresh, ferr := s.orders.GetByPublicToken(ctx, order.PublicToken); ferr == nil && fresh != nil {
			return fresh
		}
		return order
	}

	order.Status = update.Status
	if update.PaymentID != nil {
		order.RazorpayPaymentID = update.PaymentID
	}
	if update.ClearFailureReason {
		order.FailureReason = nil
	} else if reason != nil {
		order.FailureReason = reason
	}
	order.UpdatedAt = time.Now().Unix()
	return order
}

func submitAudit(event string) datatypes.JSON {
	return jsonRaw(map[string]interface{}{
		"source":        "submit-payment",
		"gateway_event": event,
	})
}

func reasonOrDefault(reason, fallback string) string {
	if strings.TrimSpace(reason) != "" {
		return reason
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}

func jsonRaw(v interface{}) datatypes.JSON {
	b, _ := json.Marshal(v)
	return b
}
