package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"shabdashri/cmd/fx/db_fx"
	"shabdashri/cmd/fx/payment_fx"
	"shabdashri/internal/api/controllers"
	"shabdashri/internal/infra"
	"shabdashri/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		db_fx.Module,
		payment_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			infra.ClosePostgresql(db)
			return nil
		},
	})
}

func ProvideRouter(
	paymentController *controllers.PaymentController,
	webhookController *controllers.WebhookController) *gin.Engine {

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, paymentController, webhookController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	paymentController *controllers.PaymentController,
	webhookController *controllers.WebhookController) {

	browser := r.Group("/", middleware.CORSMiddleware())
	browser.POST("/create-order", paymentController.CreateOrder)
	browser.POST("/submit-payment", paymentController.SubmitPayment)
	browser.POST("/payment-status", paymentController.PaymentStatus)
	for _, path := range []string{"/create-order", "/submit-payment", "/payment-status"} {
		browser.OPTIONS(path, func(c *gin.Context) { c.Status(http.StatusOK) })
	}

	// Server-to-server only: no CORS, no preflight.
	r.POST("/gateway-webhook", webhookController.HandleWebhook)
}
