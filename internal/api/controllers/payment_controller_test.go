package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shabdashri/internal/models/request_models"
	"shabdashri/internal/models/response_models"
	"shabdashri/pkg/middleware"
	"shabdashri/pkg/utils"
)

type stubPaymentService struct {
	createResp *response_models.CreateOrderResponse
	createErr  error
	submitResp *response_models.SubmitPaymentResponse
	submitErr  error
	statusResp *response_models.PaymentStatusResponse
	statusErr  error
}

func (s *stubPaymentService) CreateOrder(ctx context.Context, productID string) (*response_models.CreateOrderResponse, error) {
	return s.createResp, s.createErr
}

func (s *stubPaymentService) SubmitClientOutcome(ctx context.Context, req request_models.SubmitPaymentRequest) (*response_models.SubmitPaymentResponse, error) {
	return s.submitResp, s.submitErr
}

func (s *stubPaymentService) GetStatus(ctx context.Context, paymentToken string) (*response_models.PaymentStatusResponse, error) {
	return s.statusResp, s.statusErr
}

type stubWebhookService struct {
	ack *response_models.WebhookAck
	err error

	gotBody   []byte
	gotHeader string
}

func (s *stubWebhookService) Process(ctx context.Context, rawBody []byte, signatureHeader string) (*response_models.WebhookAck, error) {
	s.gotBody = rawBody
	s.gotHeader = signatureHeader
	return s.ack, s.err
}

func newTestRouter(payments *stubPaymentService, webhooks *stubWebhookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.TraceIDMiddleware())

	pc := NewPaymentController(payments)
	wc := NewWebhookController(webhooks)

	browser := r.Group("/", middleware.CORSMiddleware())
	browser.POST("/create-order", pc.CreateOrder)
	browser.POST("/submit-payment", pc.SubmitPayment)
	browser.POST("/payment-status", pc.PaymentStatus)
	browser.OPTIONS("/create-order", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.POST("/gateway-webhook", wc.HandleWebhook)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	r := newTestRouter(&stubPaymentService{}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/create-order", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON body", errorBody(t, w))
}

func TestCreateOrder_MissingProductID(t *testing.T) {
	r := newTestRouter(&stubPaymentService{}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/create-order", `{"productId":"  "}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "productId is required", errorBody(t, w))
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	r := newTestRouter(&stubPaymentService{createErr: utils.ErrProductNotFound}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/create-order", `{"productId":"p1"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", errorBody(t, w))
}

func TestCreateOrder_GatewayError(t *testing.T) {
	r := newTestRouter(&stubPaymentService{createErr: &utils.GatewayError{Description: "Unable to create payment order"}}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/create-order", `{"productId":"p1"}`, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Unable to create payment order", errorBody(t, w))
}

func TestCreateOrder_Success(t *testing.T) {
	r := newTestRouter(&stubPaymentService{createResp: &response_models.CreateOrderResponse{
		PaymentOrderID:   "11111111-1111-1111-1111-111111111111",
		PaymentToken:     "22222222-2222-2222-2222-222222222222",
		GatewayOrderID:   "order_rzp_1",
		Amount:           50,
		AmountMinorUnits: 5000,
		Currency:         "INR",
		CheckoutKeyID:    "rzp_test_key",
		ProductTitle:     "Mandala Design Pack",
		MerchantName:     "Shabdashri",
	}}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/create-order", `{"productId":"p1"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "order_rzp_1", body["gatewayOrderId"])
	assert.Equal(t, float64(5000), body["amountMinorUnits"])
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestSubmitPayment_MissingFields(t *testing.T) {
	r := newTestRouter(&stubPaymentService{}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/submit-payment", `{"paymentToken":"tok"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "paymentToken and gatewayOrderId are required", errorBody(t, w))
}

func TestSubmitPayment_LegacyRazorpayAliases(t *testing.T) {
	r := newTestRouter(&stubPaymentService{submitResp: &response_models.SubmitPaymentResponse{Status: "client_authorized"}}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/submit-payment",
		`{"paymentToken":"tok","razorpayOrderId":"order_rzp_1","razorpayPaymentId":"pay_1","razorpaySignature":"sig"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "client_authorized", body["status"])
}

func TestSubmitPayment_SignatureFailure(t *testing.T) {
	r := newTestRouter(&stubPaymentService{submitErr: utils.ErrSignatureFailed}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/submit-payment",
		`{"paymentToken":"tok","gatewayOrderId":"order_rzp_1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Signature verification failed", errorBody(t, w))
}

func TestPaymentStatus_MissingToken(t *testing.T) {
	r := newTestRouter(&stubPaymentService{}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/payment-status", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "paymentToken is required", errorBody(t, w))
}

func TestPaymentStatus_NotFound(t *testing.T) {
	r := newTestRouter(&stubPaymentService{statusErr: utils.ErrOrderNotFound}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/payment-status", `{"paymentToken":"tok"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Payment order not found", errorBody(t, w))
}

func TestPaymentStatus_Success(t *testing.T) {
	reason := "card declined"
	r := newTestRouter(&stubPaymentService{statusResp: &response_models.PaymentStatusResponse{
		Status:        "failed",
		FailureReason: &reason,
		Amount:        50,
		ProductTitle:  "Mandala Design Pack",
		UpdatedAt:     1700000000,
	}}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodPost, "/payment-status", `{"paymentToken":"tok"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "card declined", body["failureReason"])
}

func TestPreflight_OptionsReturns200(t *testing.T) {
	r := newTestRouter(&stubPaymentService{}, &stubWebhookService{})

	w := doJSON(t, r, http.MethodOptions, "/create-order", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWrongMethodReturns405(t *testing.T) {
	r := newTestRouter(&stubPaymentService{}, &stubWebhookService{})

	for _, path := range []string{"/create-order", "/submit-payment", "/payment-status", "/gateway-webhook"} {
		w := doJSON(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
	}
}

func TestWebhook_PassesRawBodyAndHeader(t *testing.T) {
	stub := &stubWebhookService{ack: &response_models.WebhookAck{OK: true}}
	r := newTestRouter(&stubPaymentService{}, stub)

	body := `{"event":"payment.captured","payload":{}}`
	w := doJSON(t, r, http.MethodPost, "/gateway-webhook", body, map[string]string{
		"X-Razorpay-Signature": "sig-value",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, string(stub.gotBody))
	assert.Equal(t, "sig-value", stub.gotHeader)
}

func TestWebhook_UnauthorizedOnSignatureErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"missing signature", utils.ErrWebhookSignatureMissing, http.StatusUnauthorized, "Missing webhook signature"},
		{"invalid signature", utils.ErrWebhookSignatureInvalid, http.StatusUnauthorized, "Invalid webhook signature"},
		{"bad payload", utils.ErrWebhookPayloadInvalid, http.StatusBadRequest, "Invalid webhook payload"},
		{"no order id", utils.ErrWebhookOrderMissing, http.StatusBadRequest, "No order id in webhook payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubPaymentService{}, &stubWebhookService{err: tt.err})

			w := doJSON(t, r, http.MethodPost, "/gateway-webhook", `{}`, nil)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.message, errorBody(t, w))
		})
	}
}

func TestWebhook_IgnoredAck(t *testing.T) {
	r := newTestRouter(&stubPaymentService{}, &stubWebhookService{ack: &response_models.WebhookAck{OK: true, Ignored: true}})

	w := doJSON(t, r, http.MethodPost, "/gateway-webhook", `{"event":"refund.processed"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, true, body["ignored"])
}
