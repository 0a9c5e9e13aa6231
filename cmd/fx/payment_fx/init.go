package payment_fx

import (
	"os"
	"strconv"

	"go.uber.org/fx"

	"shabdashri/internal/api/controllers"
	"shabdashri/internal/repositories"
	"shabdashri/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideRazorpayConfig),
	fx.Provide(repositories.NewPaymentOrderRepository),
	fx.Provide(repositories.NewProductRepository),
	fx.Provide(services.NewRazorpayGateway),
	fx.Provide(services.NewPaymentService),
	fx.Provide(services.NewWebhookService),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewWebhookController),
)

func provideRazorpayConfig() services.RazorpayConfig {
	cfg := services.RazorpayConfig{
		KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		MerchantName:  os.Getenv("MERCHANT_NAME"),
		Currency:      os.Getenv("PAYMENT_CURRENCY"),
	}
	if v, err := strconv.ParseInt(os.Getenv("MIN_AMOUNT_PAISE"), 10, 64); err == nil {
		cfg.MinAmountPaise = v
	}
	return cfg
}
