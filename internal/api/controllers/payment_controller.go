package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shabdashri/internal/models/request_models"
	"shabdashri/internal/services"
	"shabdashri/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// CreateOrder handles POST /create-order: look up the product, create the
// gateway order and hand the browser everything it needs to open checkout.
func (p *PaymentController) CreateOrder(c *gin.Context) {
	var req request_models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		utils.RespondError(c, http.StatusBadRequest, "productId is required")
		return
	}

	resp, err := p.paymentService.CreateOrder(c.Request.Context(), productID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitPayment handles POST /submit-payment: client-reported checkout
// outcomes, with signature proof required for success claims.
func (p *PaymentController) SubmitPayment(c *gin.Context) {
	var req request_models.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.PaymentToken) == "" || strings.TrimSpace(req.OrderID()) == "" {
		utils.RespondError(c, http.StatusBadRequest, "paymentToken and gatewayOrderId are required")
		return
	}

	resp, err := p.paymentService.SubmitClientOutcome(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PaymentStatus handles POST /payment-status: the browser's poll target.
func (p *PaymentController) PaymentStatus(c *gin.Context) {
	var req request_models.PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.PaymentToken) == "" {
		utils.RespondError(c, http.StatusBadRequest, "paymentToken is required")
		return
	}

	resp, err := p.paymentService.GetStatus(c.Request.Context(), req.PaymentToken)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
