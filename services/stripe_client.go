package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"payments-service/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

// StripeGateway is the processor-facing surface used by the controllers.
type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, req *models.CheckoutSessionRequest) (*models.CheckoutSessionResult, error)
	VerifyWebhook(payload []byte, sigHeader string) (*models.WebhookEvent, error)
}

// StripeService wraps an explicit Stripe API client plus the webhook endpoint
// secret and the configured redirect URLs. Constructed once at startup, safe
// for concurrent use.
type StripeService struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewStripeService builds a Stripe client bound to the given secret key.
// backends is nil outside of tests.
func NewStripeService(secretKey, webhookSecret, successURL, cancelURL string, backends *stripe.Backends) *StripeService {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeService{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// CreateCheckoutSession opens a hosted checkout session for the given order.
// The order ID travels as payment-intent metadata: it is the only channel
// correlating the eventual webhook back to the order. Redirect URLs come from
// configuration, never from the request.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, req *models.CheckoutSessionRequest) (*models.CheckoutSessionResult, error) {
	currency := strings.ToLower(req.Currency)

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(item.UnitAmountMinor()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		LineItems:  lineItems,
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{"orderId": req.OrderID},
		},
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	return &models.CheckoutSessionResult{
		SuccessURL: sess.SuccessURL,
		CancelURL:  sess.CancelURL,
		SessionURL: sess.URL,
	}, nil
}

// VerifyWebhook authenticates a raw webhook payload against the endpoint
// secret and decodes it into a typed event. The signature scheme covers
// "timestamp.body"; deliveries outside the default five-minute tolerance are
// rejected even with a valid signature.
func (s *StripeService) VerifyWebhook(payload []byte, sigHeader string) (*models.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("webhook verification: %w", err)
	}

	decoded := &models.WebhookEvent{
		EventID: event.ID,
		Type:    string(event.Type),
		Kind:    models.EventUnknown,
	}

	switch event.Type {
	case "charge.succeeded", "charge.failed":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		decoded.Charge = &models.ChargeEvent{
			ChargeID:   charge.ID,
			OrderID:    charge.Metadata["orderId"],
			ReceiptURL: charge.ReceiptURL,
		}
		if event.Type == "charge.succeeded" {
			decoded.Kind = models.EventChargeSucceeded
		} else {
			decoded.Kind = models.EventChargeFailed
		}
	}

	return decoded, nil
}
