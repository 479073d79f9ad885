package controllers

import (
	"context"
	"strings"
	"time"

	"payments-service/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

// respondError logs a warning and writes a JSON error response.
// The status argument should be an http.Status* constant from the caller.
func (pc *PaymentController) respondError(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		pc.Logger.Warn(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

// publishPaymentSucceeded emits the normalized event onto the internal bus.
// A publish failure never changes the HTTP response already being prepared;
// the processor would otherwise redeliver an event we already verified.
func (pc *PaymentController) publishPaymentSucceeded(ctx context.Context, event models.PaymentSucceededEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := pc.Publisher.PublishPaymentSucceeded(ctx, event); err != nil {
		pc.Logger.Error("Failed to publish payment event",
			zap.String("order_id", event.OrderID),
			zap.String("stripe_payment_id", event.StripePaymentID),
			zap.Error(err),
		)
		return
	}
	pc.Logger.Info("Payment event published",
		zap.String("order_id", event.OrderID),
		zap.String("stripe_payment_id", event.StripePaymentID),
	)
}

// recordSession stores the audit row for a created checkout session.
// Persistence failures are logged only.
func (pc *PaymentController) recordSession(ctx context.Context, req *models.CheckoutSessionRequest, result *models.CheckoutSessionResult) {
	session := &models.PaymentSession{
		ID:          uuid.New(),
		OrderID:     req.OrderID,
		Currency:    strings.ToLower(req.Currency),
		AmountMinor: req.TotalMinor(),
		SessionURL:  result.SessionURL,
	}
	if err := pc.Repo.CreateSession(ctx, session); err != nil {
		pc.Logger.Error("Failed to record checkout session",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
	}
}

// recordDelivery stores the audit row for a verified webhook delivery.
func (pc *PaymentController) recordDelivery(ctx context.Context, event *models.WebhookEvent, payload []byte) {
	delivery := &models.WebhookDelivery{
		ID:            uuid.New(),
		StripeEventID: event.EventID,
		EventType:     event.Type,
		Payload:       string(payload),
	}
	if event.Charge != nil && event.Charge.OrderID != "" {
		delivery.OrderID = &event.Charge.OrderID
	}
	if err := pc.Repo.CreateDelivery(ctx, delivery); err != nil {
		pc.Logger.Error("Failed to record webhook delivery",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}
