package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"shabdashri/internal/services"
	"shabdashri/pkg/utils"
)

const razorpaySignatureHeader = "X-Razorpay-Signature"

type WebhookController struct {
	webhookService services.WebhookServiceInterface
}

func NewWebhookController(webhookService services.WebhookServiceInterface) *WebhookController {
	return &WebhookController{webhookService: webhookService}
}

// HandleWebhook handles POST /gateway-webhook. The body must reach the
// service as raw bytes; the signature is computed pre-parse.
func (w *WebhookController) HandleWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	ack, err := w.webhookService.Process(c.Request.Context(), rawBody, c.GetHeader(razorpaySignatureHeader))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack)
}
