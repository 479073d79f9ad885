package controllers

import (
	"context"
	"io"
	"net/http"
	"time"

	"payments-service/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = int64(65536)

// StripeWebhook receives, verifies and dispatches processor webhook events.
// Verification strictly precedes decoding, which strictly precedes dispatch.
// Once a delivery is verified the processor always gets a 200: anything that
// goes wrong internally is logged, never surfaced as a retryable failure.
func (pc *PaymentController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		pc.respondError(c, http.StatusBadRequest, "unreadable webhook body", err)
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	event, err := pc.Stripe.VerifyWebhook(payload, sigHeader)
	if err != nil {
		pc.Logger.Warn("Webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook: " + err.Error()})
		return
	}

	if !pc.Deduper.FirstDelivery(c.Request.Context(), event.EventID) {
		pc.Logger.Info("Skipping duplicate webhook delivery",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.Type),
		)
		c.JSON(http.StatusOK, gin.H{"ack": true})
		return
	}

	pc.recordDelivery(c.Request.Context(), event, payload)

	switch event.Kind {
	case models.EventChargeSucceeded:
		pc.handleChargeSucceeded(c.Request.Context(), event)
	case models.EventChargeFailed:
		pc.Logger.Warn("Charge failed",
			zap.String("charge_id", event.Charge.ChargeID),
			zap.String("order_id", event.Charge.OrderID),
		)
	default:
		pc.Logger.Info("Unhandled webhook event type", zap.String("event_type", event.Type))
	}

	c.JSON(http.StatusOK, gin.H{"ack": true})
}

func (pc *PaymentController) handleChargeSucceeded(ctx context.Context, event *models.WebhookEvent) {
	charge := event.Charge

	// A succeeded charge without an order ID cannot be correlated; retrying
	// the delivery cannot fix missing data, so acknowledge and record the
	// integrity failure.
	if charge.OrderID == "" {
		pc.Logger.Error("Charge succeeded without order correlation",
			zap.String("event_id", event.EventID),
			zap.String("charge_id", charge.ChargeID),
		)
		return
	}

	pc.publishPaymentSucceeded(ctx, models.PaymentSucceededEvent{
		StripePaymentID: charge.ChargeID,
		OrderID:         charge.OrderID,
		ReceiptURL:      charge.ReceiptURL,
		Timestamp:       time.Now().UTC(),
	})
}
