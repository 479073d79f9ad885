package services_test

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"payments-service/models"
	"payments-service/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

const (
	testSuccessURL    = "https://shop.example.com/success"
	testCancelURL     = "https://shop.example.com/cancel"
	testWebhookSecret = "whsec_test_secret"
)

// newStripeTestBackend points the Stripe client at a local test server.
func newStripeTestBackend(t *testing.T, handler http.HandlerFunc) (*stripe.Backends, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	backends := &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	return backends, srv.Close
}

func checkoutRequest() *models.CheckoutSessionRequest {
	return &models.CheckoutSessionRequest{
		Currency: "USD",
		OrderID:  "ord-1",
		Items: []models.LineItem{
			{Name: "Widget", Price: decimal.RequireFromString("19.99"), Quantity: 2},
		},
	}
}

func TestCreateCheckoutSession_RequestShape(t *testing.T) {
	var form url.Values
	backends, closeSrv := newStripeTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","success_url":"https://shop.example.com/success","cancel_url":"https://shop.example.com/cancel"}`)
	})
	defer closeSrv()

	svc := services.NewStripeService("sk_test_123", testWebhookSecret, testSuccessURL, testCancelURL, backends)

	result, err := svc.CreateCheckoutSession(context.Background(), checkoutRequest())
	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", result.SessionURL)
	assert.NotEmpty(t, result.SuccessURL)
	assert.NotEmpty(t, result.CancelURL)

	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, testSuccessURL, form.Get("success_url"))
	assert.Equal(t, testCancelURL, form.Get("cancel_url"))
	assert.Equal(t, "1999", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "usd", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "Widget", form.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "ord-1", form.Get("payment_intent_data[metadata][orderId]"))

	// a single input item must produce a single processor line item
	for key := range form {
		assert.False(t, strings.HasPrefix(key, "line_items[1]"), "unexpected extra line item key %s", key)
	}
}

func TestCreateCheckoutSession_PreservesItemOrder(t *testing.T) {
	var form url.Values
	backends, closeSrv := newStripeTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_2","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_2","success_url":"https://shop.example.com/success","cancel_url":"https://shop.example.com/cancel"}`)
	})
	defer closeSrv()

	svc := services.NewStripeService("sk_test_123", testWebhookSecret, testSuccessURL, testCancelURL, backends)

	req := &models.CheckoutSessionRequest{
		Currency: "usd",
		OrderID:  "ord-2",
		Items: []models.LineItem{
			{Name: "First", Price: decimal.RequireFromString("1.00"), Quantity: 1},
			{Name: "Second", Price: decimal.RequireFromString("2.00"), Quantity: 1},
		},
	}

	_, err := svc.CreateCheckoutSession(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "First", form.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "Second", form.Get("line_items[1][price_data][product_data][name]"))
}

func TestCreateCheckoutSession_UpstreamError(t *testing.T) {
	backends, closeSrv := newStripeTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"Invalid currency: zzz"}}`)
	})
	defer closeSrv()

	svc := services.NewStripeService("sk_test_123", testWebhookSecret, testSuccessURL, testCancelURL, backends)

	result, err := svc.CreateCheckoutSession(context.Background(), checkoutRequest())
	assert.Error(t, err)
	assert.Nil(t, result)
}

// ---- webhook verification ----

func signedHeader(payload []byte, secret string, ts time.Time) string {
	sig := webhook.ComputeSignature(ts, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func chargeSucceededPayload(orderID string) []byte {
	metadata := "{}"
	if orderID != "" {
		metadata = fmt.Sprintf(`{"orderId":%q}`, orderID)
	}
	return []byte(fmt.Sprintf(
		`{"id":"evt_1","object":"event","type":"charge.succeeded","data":{"object":{"id":"ch_1","object":"charge","receipt_url":"https://pay.stripe.com/receipts/r1","metadata":%s}}}`,
		metadata,
	))
}

func webhookService() *services.StripeService {
	return services.NewStripeService("sk_test_123", testWebhookSecret, testSuccessURL, testCancelURL, nil)
}

func TestVerifyWebhook_ValidChargeSucceeded(t *testing.T) {
	svc := webhookService()
	payload := chargeSucceededPayload("ord-1")

	event, err := svc.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret, time.Now()))
	assert.NoError(t, err)
	assert.Equal(t, models.EventChargeSucceeded, event.Kind)
	assert.Equal(t, "evt_1", event.EventID)
	assert.Equal(t, "ch_1", event.Charge.ChargeID)
	assert.Equal(t, "ord-1", event.Charge.OrderID)
	assert.Equal(t, "https://pay.stripe.com/receipts/r1", event.Charge.ReceiptURL)
}

func TestVerifyWebhook_MutatedBodyRejected(t *testing.T) {
	svc := webhookService()
	payload := chargeSucceededPayload("ord-1")
	header := signedHeader(payload, testWebhookSecret, time.Now())

	tampered := make([]byte, len(payload))
	copy(tampered, payload)
	tampered[len(tampered)/2] ^= 0x01

	event, err := svc.VerifyWebhook(tampered, header)
	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestVerifyWebhook_WrongSecretRejected(t *testing.T) {
	svc := webhookService()
	payload := chargeSucceededPayload("ord-1")

	event, err := svc.VerifyWebhook(payload, signedHeader(payload, "whsec_other", time.Now()))
	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestVerifyWebhook_StaleTimestampRejected(t *testing.T) {
	svc := webhookService()
	payload := chargeSucceededPayload("ord-1")

	// valid signature over a timestamp outside the five-minute tolerance
	header := signedHeader(payload, testWebhookSecret, time.Now().Add(-10*time.Minute))

	event, err := svc.VerifyWebhook(payload, header)
	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestVerifyWebhook_MissingOrderCorrelation(t *testing.T) {
	svc := webhookService()
	payload := chargeSucceededPayload("")

	event, err := svc.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret, time.Now()))
	assert.NoError(t, err)
	assert.Equal(t, models.EventChargeSucceeded, event.Kind)
	assert.Empty(t, event.Charge.OrderID)
}

func TestVerifyWebhook_ChargeFailed(t *testing.T) {
	svc := webhookService()
	payload := []byte(`{"id":"evt_2","object":"event","type":"charge.failed","data":{"object":{"id":"ch_2","object":"charge","metadata":{"orderId":"ord-9"}}}}`)

	event, err := svc.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret, time.Now()))
	assert.NoError(t, err)
	assert.Equal(t, models.EventChargeFailed, event.Kind)
	assert.Equal(t, "ch_2", event.Charge.ChargeID)
}

func TestVerifyWebhook_UnknownEventType(t *testing.T) {
	svc := webhookService()
	payload := []byte(`{"id":"evt_3","object":"event","type":"invoice.created","data":{"object":{"id":"in_1"}}}`)

	event, err := svc.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret, time.Now()))
	assert.NoError(t, err)
	assert.Equal(t, models.EventUnknown, event.Kind)
	assert.Equal(t, "invoice.created", event.Type)
	assert.Nil(t, event.Charge)
}
