package response_models

// CreateOrderResponse is everything the browser needs to drive the gateway's
// checkout widget without ever seeing server secrets.
type CreateOrderResponse struct {
	PaymentOrderID   string  `json:"paymentOrderId"`
	PaymentToken     string  `json:"paymentToken"`
	GatewayOrderID   string  `json:"gatewayOrderId"`
	Amount           float64 `json:"amount"`
	AmountMinorUnits int64   `json:"amountMinorUnits"`
	Currency         string  `json:"currency"`
	CheckoutKeyID    string  `json:"checkoutKeyId"`
	ProductTitle     string  `json:"productTitle"`
	MerchantName     string  `json:"merchantName"`
}

type SubmitPaymentResponse struct {
	Status string `json:"status"`
}

// PaymentStatusResponse is the browser's only view into order progress. The
// client polls it on a fixed interval with a bounded attempt count.
type PaymentStatusResponse struct {
	Status        string  `json:"status"`
	FailureReason *string `json:"failureReason"`
	Amount        float64 `json:"amount"`
	ProductTitle  string  `json:"productTitle"`
	UpdatedAt     int64   `json:"updatedAt"`
}

type WebhookAck struct {
	OK      bool `json:"ok"`
	Ignored bool `json:"ignored,omitempty"`
}
