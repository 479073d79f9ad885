package controllers

import (
	"context"
	"net/http"
	"time"

	"payments-service/kafka"
	"payments-service/models"
	"payments-service/repository"
	"payments-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const checkoutTimeout = 15 * time.Second

type PaymentController struct {
	Stripe    services.StripeGateway
	Publisher kafka.EventPublisher
	Repo      repository.PaymentRepository
	Deduper   services.EventDeduper
	Logger    *zap.Logger
}

// CreateCheckoutSession opens a hosted checkout session for an order and
// returns the redirect URLs. A failed processor call surfaces immediately;
// the caller decides whether to retry.
func (pc *PaymentController) CreateCheckoutSession(c *gin.Context) {
	var req models.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pc.respondError(c, http.StatusBadRequest, "invalid checkout request", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), checkoutTimeout)
	defer cancel()

	result, err := pc.Stripe.CreateCheckoutSession(ctx, &req)
	if err != nil {
		pc.respondError(c, http.StatusBadGateway, "checkout session creation failed", err)
		return
	}

	pc.recordSession(ctx, &req, result)

	pc.Logger.Info("Checkout session created",
		zap.String("order_id", req.OrderID),
		zap.Int64("amount_minor", req.TotalMinor()),
	)
	c.JSON(http.StatusOK, result)
}
