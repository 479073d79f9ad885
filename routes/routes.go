package routes

import (
	"payments-service/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterPaymentRoutes(r *gin.Engine, pc *controllers.PaymentController) {
	r.POST("/payments/session", pc.CreateCheckoutSession)

	// Stripe webhook (no auth; authenticated by signature)
	r.POST("/webhook", pc.StripeWebhook)
}
