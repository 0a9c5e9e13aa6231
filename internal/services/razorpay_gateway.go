package services

import (
	"context"
	"encoding/json"

	razorpay "github.com/razorpay/razorpay-go"

	"shabdashri/pkg/utils"
)

type RazorpayConfig struct {
	KeyID          string
	KeySecret      string // signs checkout callbacks, authenticates API calls
	WebhookSecret  string // signs webhook bodies; distinct from KeySecret
	MerchantName   string
	Currency       string
	MinAmountPaise int64
}

type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Raw      map[string]interface{}
}

type GatewayPayment struct {
	ID               string
	Status           string
	Captured         bool
	ErrorDescription string
}

// RazorpayGateway wraps the outbound half of the integration so services can
// be tested against fakes. The SDK carries no context plumbing, so ctx is not
// threaded through; the hard request timeout set at construction keeps a
// gateway outage from hanging callers.
type RazorpayGateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error)
	ListOrderPayments(ctx context.Context, razorpayOrderID string) ([]GatewayPayment, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

// gatewayTimeoutSeconds bounds every outbound gateway call.
const gatewayTimeoutSeconds = 10

func NewRazorpayGateway(cfg RazorpayConfig) (RazorpayGateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, utils.ErrMissingConfig
	}
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	client.SetTimeout(gatewayTimeoutSeconds)
	return &razorpayGateway{client: client}, nil
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, &utils.GatewayError{Description: gatewayErrorDescription(err, "Unable to create payment order")}
	}

	return &GatewayOrder{
		ID:       asString(order["id"]),
		Amount:   asInt64(order["amount"]),
		Currency: asString(order["currency"]),
		Raw:      order,
	}, nil
}

func (g *razorpayGateway) ListOrderPayments(ctx context.Context, razorpayOrderID string) ([]GatewayPayment, error) {
	resp, err := g.client.Order.Payments(razorpayOrderID, nil, nil)
	if err != nil {
		return nil, &utils.GatewayError{Description: gatewayErrorDescription(err, "Unable to fetch payments for order")}
	}

	items, _ := resp["items"].([]interface{})
	payments := make([]GatewayPayment, 0, len(items))
	for _, item := range items {
		entity, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		captured, _ := entity["captured"].(bool)
		payments = append(payments, GatewayPayment{
			ID:               asString(entity["id"]),
			Status:           asString(entity["status"]),
			Captured:         captured,
			ErrorDescription: asString(entity["error_description"]),
		})
	}
	return payments, nil
}

// gatewayErrorDescription digs Razorpay's own error.description out of the
// SDK error body when one is present, else falls back to a generic message.
func gatewayErrorDescription(err error, fallback string) string {
	var parsed struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal([]byte(err.Error()), &parsed); jsonErr == nil && parsed.Error.Description != "" {
		return parsed.Error.Description
	}
	return fallback
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}
