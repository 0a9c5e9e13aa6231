package request_models

type CreateOrderRequest struct {
	ProductID string `json:"productId"`
}

// SubmitPaymentRequest carries a client-reported checkout outcome. The
// gateway* names are the wire contract; the razorpay* keys are accepted as
// aliases so the original checkout glue keeps working.
type SubmitPaymentRequest struct {
	PaymentToken     string `json:"paymentToken"`
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	GatewaySignature string `json:"gatewaySignature"`
	GatewayEvent     string `json:"gatewayEvent"`
	FailureReason    string `json:"failureReason"`

	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpaySignature string `json:"razorpaySignature"`
}

func (r *SubmitPaymentRequest) OrderID() string {
	if r.GatewayOrderID != "" {
		return r.GatewayOrderID
	}
	return r.RazorpayOrderID
}

func (r *SubmitPaymentRequest) PaymentID() string {
	if r.GatewayPaymentID != "" {
		return r.GatewayPaymentID
	}
	return r.RazorpayPaymentID
}

func (r *SubmitPaymentRequest) Signature() string {
	if r.GatewaySignature != "" {
		return r.GatewaySignature
	}
	return r.RazorpaySignature
}

type PaymentStatusRequest struct {
	PaymentToken string `json:"paymentToken"`
}
